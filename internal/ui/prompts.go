package ui

import (
	stderrors "errors"

	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/km/internal/errors"
)

// Confirm asks a yes/no question. Dismissing the form counts as "no".
func Confirm(title, description string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, errors.WrapWithCode(err, errors.ErrConfig,
			"Confirmation prompt failed", "")
	}
	return confirmed, nil
}

// PromptPassword asks for a secret without echoing it. An empty answer
// is a legitimate value; dismissing the prompt is CANCELLED, never an
// empty string.
func PromptPassword(title string) (string, error) {
	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	)
	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return "", errors.New(errors.ErrCancelled,
				"Password prompt cancelled", "")
		}
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Password prompt failed", "")
	}
	return password, nil
}

// PromptNewPassphrase asks for a passphrase twice and insists the
// entries match. Empty (with confirmation) means no passphrase.
func PromptNewPassphrase(title string) (string, error) {
	for {
		first, err := PromptPassword(title + " (empty for none)")
		if err != nil {
			return "", err
		}
		second, err := PromptPassword("Repeat to confirm")
		if err != nil {
			return "", err
		}
		if first == second {
			return first, nil
		}
		if ok, err := Confirm("Entries didn't match", "Try again?"); err != nil || !ok {
			if err != nil {
				return "", err
			}
			return "", errors.New(errors.ErrCancelled,
				"Passphrase entry cancelled", "")
		}
	}
}

// SelectOption is one choice offered by Select.
type SelectOption struct {
	Label string
	Value string
}

// Select asks the user to choose one of the options.
func Select(title string, options []SelectOption) (string, error) {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return "", errors.New(errors.ErrCancelled,
				"Selection cancelled", "")
		}
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Selection prompt failed", "")
	}
	return choice, nil
}
