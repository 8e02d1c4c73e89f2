package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"voltedge_site_go/admin"
	"voltedge_site_go/apiclient"
	"voltedge_site_go/config"

	"github.com/spf13/cobra"
)

// app bundles everything a command needs. It is built once in
// PersistentPreRunE so --api and --session flags are already parsed.
type app struct {
	cfg    *config.Config
	client *apiclient.Client
	gate   *admin.Gate
	office *admin.Backoffice
}

var (
	apiBaseURL  string
	sessionFile string
	quiet       bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand(&app{})
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "voltedge-admin: %s\n", describe(err))
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voltedge-admin",
		Short: "VoltEdge back office",
		Long: `voltedge-admin manages the products, services, clients, gallery images,
categories and enquiries shown on the VoltEdge website through its REST API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.init()
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "API base URL (defaults to API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&sessionFile, "session", "", "Session file (defaults to ADMIN_SESSION_FILE)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Do not print notifications")

	cmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newDashboardCmd(a),
		newProductsCmd(a),
		newServicesCmd(a),
		newClientsCmd(a),
		newGalleryCmd(a),
		newEnquiriesCmd(a),
		newCategoriesCmd(a),
	)
	return cmd
}

func (a *app) init() {
	a.cfg = config.Load()
	if apiBaseURL == "" {
		apiBaseURL = a.cfg.APIBaseURL
	}
	if sessionFile == "" {
		sessionFile = a.cfg.AdminSessionFile
	}
	if sessionFile == "" {
		sessionFile = admin.DefaultSessionPath()
	}

	store := admin.NewFileSessionStore(sessionFile)
	var gate *admin.Gate
	a.client = apiclient.New(apiBaseURL,
		apiclient.WithTimeout(a.cfg.APITimeout),
		apiclient.WithTokenSource(func() string { return gate.Token() }),
	)
	gate = admin.NewGate(store, a.client)
	a.gate = gate

	a.office = admin.NewBackoffice(a.client, admin.Config{
		PageSize: a.cfg.AdminPageSize,
		Timeout:  a.cfg.APITimeout,
	})
	a.office.Notifier.Subscribe(func(t admin.Toast, visible bool) {
		if !visible || quiet {
			return
		}
		fmt.Fprintf(os.Stderr, "[%s] %s\n", t.Kind, t.Message)
	})
}

// requireSession is the protected-route guard: every back-office command
// runs it before touching the API.
func (a *app) requireSession(ctx context.Context) (admin.AuthSession, error) {
	session, err := a.gate.Check(ctx)
	if errors.Is(err, admin.ErrNotAuthenticated) || errors.Is(err, admin.ErrAuthCheckFailed) {
		return admin.AuthSession{}, errors.New("not signed in, run `voltedge-admin login` first")
	}
	return session, err
}

// describe turns validation errors into one line per field.
func describe(err error) string {
	var verr *admin.ValidationError
	if errors.As(err, &verr) {
		msg := "please correct the highlighted fields"
		for _, f := range sortedKeys(verr.Fields) {
			msg += fmt.Sprintf("\n  %s: %s", f, verr.Fields[f])
		}
		return msg
	}
	var op *admin.OpError
	if errors.As(err, &op) {
		return op.Message
	}
	return err.Error()
}
