package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/services/account"
	"github.com/KirkDiggler/aura/internal/services/messaging"
	"github.com/KirkDiggler/aura/internal/surface"
	"github.com/KirkDiggler/aura/internal/surface/terminal"
	"github.com/spf13/cobra"
)

var errBackendFailed = errors.New("account backend unavailable")

// accountForm is an account service bound to a terminal and a running loop
type accountForm struct {
	svc    account.Service
	term   *terminal.Terminal
	waiter *navigationWaiter
	stop   func()
}

func newAccountForm(cmd *cobra.Command, a *app, latency time.Duration, fail bool) (*accountForm, error) {
	msgSvc, err := messaging.New(&messaging.Config{})
	if err != nil {
		return nil, err
	}

	backend := &account.SimulatedBackend{Delay: latency}
	if fail {
		backend.Err = errBackendFailed
	}

	term := terminal.New(&terminal.Config{Output: cmd.OutOrStdout()})
	waiter := newNavigationWaiter()
	loop, stop := startLoop(cmd.Context(), a.log)

	svc, err := account.New(&account.Config{
		SignupRedirectDelay: a.cfg.Account.SignupRedirectDelay,
		ResetRedirectDelay:  a.cfg.Account.ResetRedirectDelay,
		Timeline:            loop,
		Messaging:           msgSvc,
		Backend:             backend,
		Renderer:            term,
		Notifier:            term,
		Navigator: &surface.Multi{
			Navigators: []surface.Navigator{term, waiter},
		},
		Logger: a.log,
	})
	if err != nil {
		stop()
		return nil, err
	}

	return &accountForm{
		svc:    svc,
		term:   term,
		waiter: waiter,
		stop:   stop,
	}, nil
}

// submit runs request behind a spinner and waits for the redirect that follows success
func (f *accountForm) submit(cmd *cobra.Command, label string, request func(context.Context) error) error {
	ctx := cmd.Context()
	if err := withSpinner(ctx, cmd.OutOrStdout(), label, request); err != nil {
		return err
	}

	_, err := f.waiter.wait(ctx)
	return err
}

type signupOptions struct {
	firstName        string
	lastName         string
	email            string
	age              int
	password         string
	confirmPassword  string
	role             string
	acceptTerms      bool
	contactNumber    string
	emergencyContact string
	fail             bool
}

func newSignupCmd(a *app) *cobra.Command {
	opts := &signupOptions{}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := newAccountForm(cmd, a, a.cfg.Account.SignupLatency, opts.fail)
			if err != nil {
				return err
			}
			defer form.stop()

			ctx := cmd.Context()
			role := models.Role(opts.role)
			if role.IsValid() {
				if _, err := form.svc.SelectRole(ctx, &account.SelectRoleInput{Role: role}); err != nil {
					return err
				}
			}

			if _, err := form.svc.EvaluatePassword(ctx, &account.EvaluatePasswordInput{
				Password: opts.password,
				Confirm:  opts.confirmPassword,
			}); err != nil {
				return err
			}

			var user *models.User
			err = form.submit(cmd, account.SignupPendingText, func(ctx context.Context) error {
				output, err := form.svc.Signup(ctx, &account.SignupInput{
					FirstName:        opts.firstName,
					LastName:         opts.lastName,
					Email:            opts.email,
					Age:              opts.age,
					Password:         opts.password,
					ConfirmPassword:  opts.confirmPassword,
					Role:             role,
					AcceptedTerms:    opts.acceptTerms,
					ContactNumber:    opts.contactNumber,
					EmergencyContact: opts.emergencyContact,
				})
				if err != nil {
					return err
				}
				user = output.User
				return nil
			})
			if err != nil {
				return err
			}

			form.term.Println(fmt.Sprintf("Signed in as %s <%s> (%s)", user.Name, user.Email, user.Role))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&opts.lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&opts.email, "email", "", "email address")
	cmd.Flags().IntVar(&opts.age, "age", 0, "age in years")
	cmd.Flags().StringVar(&opts.password, "password", "", "password")
	cmd.Flags().StringVar(&opts.confirmPassword, "confirm-password", "", "password again")
	cmd.Flags().StringVar(&opts.role, "role", string(models.RoleUser), "user or admin")
	cmd.Flags().BoolVar(&opts.acceptTerms, "accept-terms", false, "accept the terms of service")
	cmd.Flags().StringVar(&opts.contactNumber, "contact", "", "contact number (users only)")
	cmd.Flags().StringVar(&opts.emergencyContact, "emergency-contact", "", "emergency contact (users only)")
	cmd.Flags().BoolVar(&opts.fail, "fail", false, "make the simulated backend fail")

	return cmd
}

func newResetPasswordCmd(a *app) *cobra.Command {
	var email string
	var fail bool

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := newAccountForm(cmd, a, a.cfg.Account.ResetLatency, fail)
			if err != nil {
				return err
			}
			defer form.stop()

			return form.submit(cmd, account.ResetPendingText, func(ctx context.Context) error {
				_, err := form.svc.RequestPasswordReset(ctx, &account.RequestPasswordResetInput{
					Email: email,
				})
				return err
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email address")
	cmd.Flags().BoolVar(&fail, "fail", false, "make the simulated backend fail")

	return cmd
}

func newPasswordStrengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password-strength <password> [confirm]",
		Short: "Score a password",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			strength := account.PasswordStrength(args[0])
			label := string(strength.Label)
			if style, ok := strengthStyles[strength.Label]; ok {
				label = style.Render(label)
			}

			line := fmt.Sprintf("Strength: %s (%d/100)", label, strength.Score)
			if len(args) == 2 && !account.ValidatePasswordMatch(args[0], args[1]) {
				line += "\n" + account.PasswordMismatchText
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), line)
			return err
		},
	}
}
