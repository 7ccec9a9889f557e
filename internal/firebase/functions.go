package firebase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Functions calls HTTPS callable functions.
type Functions struct {
	projectID string
	region    string
	baseURL   string
	emulated  bool
	http      *resty.Client
}

// FunctionError is the error object a callable function returns.
type FunctionError struct {
	HTTPStatus int             `json:"-"`
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Details    json.RawMessage `json:"details,omitempty"`
}

func (e *FunctionError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("function call failed with http %d: %s", e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("function call failed: %s: %s", e.Status, e.Message)
}

type callableRequest struct {
	Data any `json:"data"`
}

type callableResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *FunctionError  `json:"error"`
}

// NewFunctions builds the client. When FUNCTIONS_EMULATOR_HOST is set in env
// calls go to http://<host>/<project>/<region>/<name>.
func NewFunctions(projectID, region string, env Environ) *Functions {
	if region == "" {
		region = "us-central1"
	}
	f := &Functions{
		projectID: projectID,
		region:    region,
		baseURL:   fmt.Sprintf("https://%s-%s.cloudfunctions.net", region, projectID),
		http:      resty.New().SetTimeout(70 * time.Second),
	}
	if host, ok := env.LookupEnv(FunctionsEmulatorEnv); ok && host != "" {
		f.baseURL = fmt.Sprintf("http://%s/%s/%s", host, projectID, region)
		f.emulated = true
	}
	return f
}

// WithBaseURL overrides the endpoint root.
func (f *Functions) WithBaseURL(u string) *Functions {
	f.baseURL = strings.TrimRight(u, "/")
	return f
}

func (f *Functions) Emulated() bool { return f.emulated }

func (f *Functions) URL(name string) string {
	return f.baseURL + "/" + name
}

// Call invokes the callable function name with data. idToken, when not
// empty, is forwarded as the caller's Firebase ID token.
func (f *Functions) Call(ctx context.Context, name string, data any, idToken string) (json.RawMessage, error) {
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("invalid function name %q", name)
	}

	var out callableResponse
	req := f.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(callableRequest{Data: data}).
		SetResult(&out).
		SetError(&out)
	if idToken != "" {
		req.SetAuthToken(idToken)
	}

	resp, err := req.Post(f.URL(name))
	if err != nil {
		return nil, fmt.Errorf("call function %s: %w", name, err)
	}
	if out.Error != nil {
		out.Error.HTTPStatus = resp.StatusCode()
		return nil, out.Error
	}
	if resp.IsError() {
		return nil, &FunctionError{HTTPStatus: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	}
	return out.Result, nil
}
