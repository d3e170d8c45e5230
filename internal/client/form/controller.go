// Package form drives the add/view/update dialog of the user directory.
//
// A Controller is opened in one mode, collects field edits and an optional
// image, validates locally, submits once, and on success closes and returns
// a fresh directory listing. Failures keep the form open with the error
// retained so the operator can correct and resubmit.
package form

import (
	"context"
	"errors"
	"io/fs"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

type State string

const (
	StateIdle          State = "idle"
	StateImageSelected State = "imageSelected"
	StateSubmitting    State = "submitting"
	StateError         State = "error"
	StateClosed        State = "closed"
)

var (
	ErrReadOnly = errors.New("field is read-only")
	ErrClosed   = errors.New("form is closed")
)

// Directory is what the form needs from the directory service.
type Directory interface {
	List(ctx context.Context) ([]models.UserRecord, error)
	Create(ctx context.Context, user models.NewUser) error
	Update(ctx context.Context, update models.UserUpdate) error
}

// ImageIngestor encodes a selected image file.
type ImageIngestor interface {
	Ingest(ctx context.Context, f fs.File) (string, error)
}

type Controller struct {
	dir    Directory
	images ImageIngestor

	mode  models.Mode
	state State

	add  models.AddDraft
	upd  models.UpdateDraft
	view models.ViewDraft

	imageErr error
	err      error
}

// NewController returns a closed controller. Open it with OpenAdd, OpenView
// or OpenUpdate.
func NewController(dir Directory, images ImageIngestor) *Controller {
	return &Controller{dir: dir, images: images, state: StateClosed}
}

func (c *Controller) reset(mode models.Mode) {
	c.mode = mode
	c.state = StateIdle
	c.add = models.AddDraft{}
	c.upd = models.UpdateDraft{}
	c.view = models.ViewDraft{}
	c.imageErr = nil
	c.err = nil
}

// OpenAdd starts an empty add form.
func (c *Controller) OpenAdd() {
	c.reset(models.ModeAdd)
}

// OpenView shows rec without allowing changes.
func (c *Controller) OpenView(rec models.UserRecord) {
	c.reset(models.ModeView)
	c.view = models.ViewDraft{Record: rec}
}

// OpenUpdate starts editing rec. The username stays fixed.
func (c *Controller) OpenUpdate(rec models.UserRecord) {
	c.reset(models.ModeUpdate)
	c.upd = models.UpdateDraft{Username: rec.Username, Email: rec.Email, ImageData: rec.ImageData}
}

func (c *Controller) Mode() models.Mode { return c.mode }

func (c *Controller) State() State { return c.state }

// Err returns the message of the last failed submission or image selection.
func (c *Controller) Err() error { return c.err }

// ImageErr returns the pending image rejection, if any.
func (c *Controller) ImageErr() error { return c.imageErr }

// Record returns the values currently shown in the form.
func (c *Controller) Record() models.UserRecord {
	switch c.mode {
	case models.ModeAdd:
		return models.UserRecord{Username: c.add.Username, Email: c.add.Email, ImageData: c.add.ImageData}
	case models.ModeUpdate:
		return models.UserRecord{Username: c.upd.Username, Email: c.upd.Email, ImageData: c.upd.ImageData}
	default:
		return c.view.Record
	}
}

func (c *Controller) editable(addOnly bool) error {
	if c.state == StateClosed {
		return ErrClosed
	}
	if c.mode == models.ModeView || (addOnly && c.mode != models.ModeAdd) {
		return ErrReadOnly
	}
	if c.state == StateError {
		c.state = StateIdle
	}
	return nil
}

func (c *Controller) SetUsername(v string) error {
	if err := c.editable(true); err != nil {
		return err
	}
	c.add.Username = v
	return nil
}

func (c *Controller) SetEmail(v string) error {
	if err := c.editable(false); err != nil {
		return err
	}
	if c.mode == models.ModeAdd {
		c.add.Email = v
	} else {
		c.upd.Email = v
	}
	return nil
}

func (c *Controller) SetPassword(v string) error {
	if err := c.editable(true); err != nil {
		return err
	}
	c.add.Password = v
	return nil
}

func (c *Controller) SetConfirmPassword(v string) error {
	if err := c.editable(true); err != nil {
		return err
	}
	c.add.ConfirmPassword = v
	return nil
}

// SelectImage ingests f. A nil file means nothing was selected and clears a
// previous rejection. A rejected file sets the image error, which blocks
// Submit until a valid file or no file is selected.
func (c *Controller) SelectImage(ctx context.Context, f fs.File) error {
	if err := c.editable(false); err != nil {
		return err
	}

	if f == nil {
		c.imageErr = nil
		return nil
	}

	data, err := c.images.Ingest(ctx, f)
	if err != nil {
		c.imageErr = err
		return c.fail(err)
	}

	c.imageErr = nil
	if c.mode == models.ModeAdd {
		c.add.ImageData = data
	} else {
		c.upd.ImageData = data
	}
	c.state = StateImageSelected
	return nil
}

// Submit validates the draft, sends it, and on success closes the form and
// returns the re-fetched directory. The list error, if any, is returned with
// the form already closed.
func (c *Controller) Submit(ctx context.Context) ([]models.UserRecord, error) {
	if c.state == StateClosed {
		return nil, ErrClosed
	}
	if c.mode == models.ModeView {
		return nil, ErrReadOnly
	}

	if err := c.validate(); err != nil {
		return nil, c.fail(err)
	}

	c.state = StateSubmitting

	var err error
	if c.mode == models.ModeAdd {
		err = c.dir.Create(ctx, c.add.NewUser())
	} else {
		err = c.dir.Update(ctx, c.upd.Update())
	}
	if err != nil {
		return nil, c.fail(err)
	}

	c.reset(c.mode)
	c.state = StateClosed
	return c.dir.List(ctx)
}

func (c *Controller) validate() error {
	if c.mode == models.ModeAdd {
		if c.add.Password == "" || c.add.ConfirmPassword == "" {
			return client.Invalid("Password and confirmation are required.")
		}
		if c.add.Password != c.add.ConfirmPassword {
			return client.Invalid("Passwords do not match.")
		}
	}

	if c.imageErr != nil {
		return c.imageErr
	}

	rec := c.Record()
	if rec.Username == "" || rec.Email == "" {
		return client.Invalid("Please fill out all fields")
	}
	return nil
}

// Cancel closes the form and discards the draft.
func (c *Controller) Cancel() {
	c.reset(c.mode)
	c.state = StateClosed
}

func (c *Controller) fail(err error) error {
	c.state = StateError
	c.err = err
	return err
}
