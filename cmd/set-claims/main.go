package main

import (
	"context"
	"fmt"
	"os"

	firebasesdk "firebase.google.com/go/v4"
	"github.com/alecthomas/kingpin/v2"

	"saas-platform/backend/internal/config"
	"saas-platform/backend/internal/firebase"
	"saas-platform/backend/internal/hostenv"
	"saas-platform/backend/internal/logger"
)

func main() {
	app := kingpin.New("set-claims", "Set custom role claims on a Firebase user")
	uid := app.Flag("uid", "target firebase uid").Required().String()
	role := app.Flag("role", "role to grant").Default("staff").Enum("staff", "admin")
	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load()
	if err != nil {
		kingpin.Fatalf("config: %v", err)
	}
	log := logger.New("set-claims", cfg.LogLevel)

	// Same emulator rules as the API so local runs never touch production users.
	firebase.ConnectEmulators(cfg.IsDevelopment(), hostenv.FromHostname(cfg.Hostname), firebase.OSEnviron, log)

	ctx := context.Background()
	fb, err := firebasesdk.NewApp(ctx, &firebasesdk.Config{ProjectID: cfg.Firebase.ProjectID}, firebase.ClientOptions(cfg)...)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase.NewApp")
	}
	authClient, err := fb.Auth(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("app.Auth")
	}

	if err := authClient.SetCustomUserClaims(ctx, *uid, RoleClaims(*role)); err != nil {
		log.Fatal().Err(err).Str("uid", *uid).Msg("SetCustomUserClaims")
	}

	fmt.Printf("ok: %s claims set for %s\n", *role, *uid)
}

// RoleClaims builds the claim set middleware.IsAdmin understands.
func RoleClaims(role string) map[string]any {
	c := map[string]any{
		"role":  role,
		"roles": []string{role},
	}
	c[role] = true
	return c
}
