// Command promote_admin flags an existing profile as admin, and optionally as
// a verified investor, through the configured backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yungbote/pitchbridge/internal/app"
	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/domain"
)

func main() {
	var email string
	var verify bool
	flag.StringVar(&email, "email", "", "email of the profile to promote")
	flag.BoolVar(&verify, "verify", false, "also mark the profile verified")
	flag.Parse()

	if strings.TrimSpace(email) == "" {
		fmt.Fprintln(os.Stderr, "-email is required")
		os.Exit(2)
	}

	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	// Row-level security hides other users' rows from the anon key.
	if key := strings.TrimSpace(os.Getenv("SUPABASE_SERVICE_ROLE_KEY")); key != "" {
		ctx = backend.WithAccessToken(ctx, key)
	} else if application.Cfg.BackendMode == app.BackendREST {
		application.Log.Warn("SUPABASE_SERVICE_ROLE_KEY not set; the update may be refused")
	}

	p, err := promote(ctx, application.Clients.Backend, email, verify)
	if err != nil {
		application.Log.Error("Promotion failed", "error", err)
		application.Close()
		os.Exit(1)
	}
	fmt.Printf("promoted %s (%s) admin=%v verified=%v\n", p.FullName, p.ID, p.IsAdmin, p.IsVerified)
}

func promote(ctx context.Context, tables backend.Tables, email string, verify bool) (*domain.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	p, err := backend.One[domain.Profile](ctx, tables,
		backend.From(domain.TableProfiles).Where(backend.Eq("email", email)))
	if err != nil {
		if errors.Is(err, backend.ErrNoRows) {
			return nil, fmt.Errorf("no profile with email %s", email)
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	fields := map[string]any{"is_admin": true}
	if verify {
		fields["is_verified"] = true
	}
	if err := tables.Update(ctx, domain.TableProfiles, fields, backend.Eq("id", p.ID)); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	p.IsAdmin = true
	if verify {
		p.IsVerified = true
	}
	return p, nil
}
