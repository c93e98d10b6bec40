package database

import (
	"context"
	"fmt"

	"github.com/mbolis/formcraft/log"
)

// FormDeleter is the part of the store a cascading form deletion needs.
type FormDeleter interface {
	DeleteFiles(ctx context.Context, formID string) error
	DeleteResponses(ctx context.Context, formID string) error
	DeleteForm(ctx context.Context, formID string) error
}

// DeleteFormCascade removes a form's files, then its responses, then the form.
// A failure to remove files is logged and ignored; the other two steps abort.
// The steps are not one transaction.
func DeleteFormCascade(ctx context.Context, d FormDeleter, formID string) error {
	if err := d.DeleteFiles(ctx, formID); err != nil {
		log.With(log.Fields{"form_id": formID}).Warnf("db.delete_form.files: %s", err)
	}
	if err := d.DeleteResponses(ctx, formID); err != nil {
		return &CascadeError{Step: StepResponses, Err: err}
	}
	if err := d.DeleteForm(ctx, formID); err != nil {
		return &CascadeError{Step: StepForm, Err: err}
	}
	return nil
}

const (
	StepResponses = "responses"
	StepForm      = "form"
)

// CascadeError tells which step of DeleteFormCascade failed.
type CascadeError struct {
	Step string
	Err  error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("delete %s: %s", e.Step, e.Err)
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}
