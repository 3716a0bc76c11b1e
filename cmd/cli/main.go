// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/apiclient"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/identity"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/report"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/session"
)

const usage = `usage: rubbishctl [flags] <command>

commands:
  register      create a community member account
  login         log in as a community member
  admin-login   log in as a council admin
  logout        log out and clear the local session
  whoami        show the logged-in profile
  refresh       re-fetch the profile (eco-points, credits)
  report        submit a rubbish report
  my-reports    list your submitted reports

flags:
`

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "API base URL")
	sessionDir := flag.String("session-dir", defaultSessionDir(), "directory for the persisted session")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := os.MkdirAll(*sessionDir, 0o700); err != nil {
		fatal(err)
	}

	client := apiclient.New(*serverURL)
	manager, err := session.NewManager(session.NewStore(*sessionDir), client)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app := &cli{client: client, session: manager}

	switch cmd := flag.Arg(0); cmd {
	case "register":
		err = app.register(ctx, flag.Args()[1:])
	case "login":
		err = app.login(ctx, flag.Args()[1:], client.Login)
	case "admin-login":
		err = app.login(ctx, flag.Args()[1:], client.AdminLogin)
	case "logout":
		err = app.logout(ctx)
	case "whoami":
		err = app.whoami()
	case "refresh":
		err = app.refresh(ctx)
	case "report":
		err = app.submitReport(ctx, flag.Args()[1:])
	case "my-reports":
		err = app.myReports(ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fatal(err)
	}
}

type cli struct {
	client  *apiclient.Client
	session *session.Manager
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	name := fs.String("name", "", "display name")
	//nolint:errcheck // ExitOnError flag sets never return an error
	_ = fs.Parse(args)

	auth, err := c.client.Register(ctx, identity.RegisterRequest{
		Email:    *email,
		Password: *password,
		Name:     *name,
	})
	if err != nil {
		return err
	}

	if err := c.session.Login(auth); err != nil {
		return err
	}

	fmt.Printf("registered and logged in as %s\n", auth.User.Email)
	return nil
}

func (c *cli) login(
	ctx context.Context,
	args []string,
	authenticate func(context.Context, identity.LoginRequest) (*identity.AuthResponse, error),
) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	//nolint:errcheck // ExitOnError flag sets never return an error
	_ = fs.Parse(args)

	auth, err := authenticate(ctx, identity.LoginRequest{
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return err
	}

	if err := c.session.Login(auth); err != nil {
		return err
	}

	fmt.Printf("logged in as %s (%s)\n", auth.User.Email, auth.User.Role)
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if token := c.session.AccessToken(); token != "" {
		// Server-side revocation is best-effort; the local session is
		// cleared either way.
		if err := c.client.Logout(ctx, token); err != nil {
			fmt.Fprintf(os.Stderr, "warning: server logout failed: %v\n", err)
		}
	}

	if err := c.session.Logout(); err != nil {
		return err
	}

	fmt.Println("logged out")
	return nil
}

func (c *cli) whoami() error {
	current := c.session.Current()
	if !current.IsAuthenticated() {
		return session.ErrNotAuthenticated
	}

	u := current.User
	fmt.Printf("%s <%s>\n", u.Name, u.Email)
	fmt.Printf("  role:       %s\n", u.Role)
	fmt.Printf("  eco-points: %d\n", u.EcoPoints)
	fmt.Printf("  credits:    %d\n", u.Credits)
	return nil
}

func (c *cli) refresh(ctx context.Context) error {
	if err := c.session.Refresh(ctx); err != nil {
		return err
	}
	return c.whoami()
}

func (c *cli) submitReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	reportType := fs.String("type", "litter", "rubbish category")
	description := fs.String("description", "", "what you found")
	lat := fs.Float64("lat", 0, "latitude")
	lng := fs.Float64("lng", 0, "longitude")
	address := fs.String("address", "", "street address (optional)")
	photoPath := fs.String("photo", "", "path to a photo to attach (optional)")
	//nolint:errcheck // ExitOnError flag sets never return an error
	_ = fs.Parse(args)

	token := c.session.AccessToken()
	if token == "" {
		return session.ErrNotAuthenticated
	}

	var photo string
	if *photoPath != "" {
		encoded, err := encodePhoto(*photoPath)
		if err != nil {
			return err
		}
		photo = encoded
	}

	submitted, err := c.client.SubmitReport(ctx, token, report.SubmitReportRequest{
		Type:        *reportType,
		Description: *description,
		Location: report.LocationPayload{
			Lat:     lat,
			Lng:     lng,
			Address: *address,
		},
		Photo: photo,
	})
	if err != nil {
		return err
	}

	fmt.Printf("report %s submitted (%s)\n", submitted.ID, submitted.Status)

	if err := c.session.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: session refresh failed: %v\n", err)
	}
	return nil
}

func (c *cli) myReports(ctx context.Context) error {
	current := c.session.Current()
	if !current.IsAuthenticated() {
		return session.ErrNotAuthenticated
	}

	list, err := c.client.ListReportsByUser(
		ctx,
		current.Token.AccessToken,
		current.User.ID,
	)
	if err != nil {
		return err
	}

	if list.Total == 0 {
		fmt.Println("no reports yet")
		return nil
	}

	for _, r := range list.Reports {
		fmt.Printf("%s  %-8s  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Status,
			r.Description,
		)
	}
	fmt.Printf("%d report(s)\n", list.Total)
	return nil
}

// encodePhoto inlines an image file as a data URL, the format the web
// client uploads.
func encodePhoto(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}

	mimeType := http.DetectContentType(data)
	return "data:" + mimeType + ";base64," +
		base64.StdEncoding.EncodeToString(data), nil
}

func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rubbish-report"
	}
	return filepath.Join(home, ".rubbish-report")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
