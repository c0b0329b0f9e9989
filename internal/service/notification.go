package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/apierrors"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

var _ model.Notifier = (*Dispatcher)(nil)

// DispatcherOptions feed the render context shared by every template.
type DispatcherOptions struct {
	AppName         string
	FrontendURL     string
	SupportEmail    string
	DefaultLanguage string
	CodeTTL         time.Duration
}

// Dispatcher turns notification requests into delivery queue jobs.
type Dispatcher struct {
	queue   model.EmailQueue
	storage model.Storage
	opts    DispatcherOptions
	logger  *logger.Logger
	now     func() time.Time
}

// NewDispatcher creates a Dispatcher. storage may be nil, in which case
// requests carrying attachment content are rejected.
func NewDispatcher(queue model.EmailQueue, storage model.Storage, opts DispatcherOptions, logger *logger.Logger) *Dispatcher {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	return &Dispatcher{
		queue:   queue,
		storage: storage,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// AttachmentInput is either inline Content or a reference to an already stored ObjectKey.
type AttachmentInput struct {
	Filename    string
	ContentType string
	Content     []byte
	ObjectKey   string
}

type EmailRequest struct {
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Template    string
	Context     map[string]any
	Attachments []AttachmentInput
	Priority    int
	Delay       time.Duration
	Attempts    int
	Language    string
}

type QueueResult struct {
	Queued bool
	JobID  uuid.UUID
}

func (d *Dispatcher) QueueEmail(ctx context.Context, req EmailRequest) (QueueResult, error) {
	job, err := d.buildJob(ctx, req)
	if err != nil {
		return QueueResult{}, err
	}

	saved, err := d.queue.Enqueue(ctx, job, model.EnqueueOptions{
		Priority: req.Priority,
		Delay:    req.Delay,
		Attempts: req.Attempts,
	})
	if err != nil {
		d.logger.Error("Notification service: failed to queue email",
			"template", job.Template,
			"error", err.Error())
		return QueueResult{}, fmt.Errorf("failed to queue email: %w", err)
	}

	d.logger.Debug("Notification service: email queued",
		"job_id", saved.ID,
		"template", saved.Template)
	return QueueResult{Queued: true, JobID: saved.ID}, nil
}

// QueueBulk queues all requests or none of them.
func (d *Dispatcher) QueueBulk(ctx context.Context, reqs []EmailRequest) ([]QueueResult, error) {
	jobs := make([]model.EmailJob, 0, len(reqs))
	now := d.now()
	for _, req := range reqs {
		job, err := d.buildJob(ctx, req)
		if err != nil {
			return nil, err
		}
		job.Priority = req.Priority
		job.MaxAttempts = req.Attempts
		if req.Delay > 0 {
			job.RunAt = now.Add(req.Delay)
		}
		jobs = append(jobs, job)
	}

	saved, err := d.queue.EnqueueBulk(ctx, jobs, model.EnqueueOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to queue emails: %w", err)
	}

	results := make([]QueueResult, 0, len(saved))
	for _, job := range saved {
		results = append(results, QueueResult{Queued: true, JobID: job.ID})
	}
	return results, nil
}

func (d *Dispatcher) buildJob(ctx context.Context, req EmailRequest) (model.EmailJob, error) {
	if len(req.To) == 0 {
		return model.EmailJob{}, apierrors.NewErrValidationFields(map[string]string{"to": "required"})
	}
	if req.Template == "" {
		req.Template = model.TemplateGeneric
	}

	lang := req.Language
	if lang == "" {
		lang = d.opts.DefaultLanguage
	}

	attachments, err := d.storeAttachments(ctx, req.Attachments)
	if err != nil {
		return model.EmailJob{}, err
	}

	subject := req.Subject
	if subject == "" {
		subject = subjectFor(req.Template, lang)
	}

	return model.EmailJob{
		Recipients:  req.To,
		Cc:          req.Cc,
		Bcc:         req.Bcc,
		Subject:     subject,
		Template:    req.Template,
		Language:    lang,
		Context:     d.renderContext(lang, req.Context),
		Attachments: attachments,
	}, nil
}

func (d *Dispatcher) storeAttachments(ctx context.Context, inputs []AttachmentInput) ([]model.Attachment, error) {
	attachments := make([]model.Attachment, 0, len(inputs))
	for _, in := range inputs {
		if in.ObjectKey != "" {
			attachments = append(attachments, model.Attachment{
				Filename:    in.Filename,
				ContentType: in.ContentType,
				ObjectKey:   in.ObjectKey,
			})
			continue
		}

		if d.storage == nil {
			return nil, apierrors.NewErrAttachmentsUnavailable()
		}

		key := path.Join("attachments", uuid.NewString(), path.Base(in.Filename))
		err := d.storage.Upload(ctx, key, bytes.NewReader(in.Content), int64(len(in.Content)), in.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload attachment: %w", err)
		}

		attachments = append(attachments, model.Attachment{
			Filename:    in.Filename,
			ContentType: in.ContentType,
			ObjectKey:   key,
		})
	}
	return attachments, nil
}

// renderContext layers extra over the values every template can use.
func (d *Dispatcher) renderContext(lang string, extra map[string]any) map[string]any {
	values := map[string]any{
		"app_name":      d.opts.AppName,
		"frontend_url":  d.opts.FrontendURL,
		"support_email": d.opts.SupportEmail,
		"year":          d.now().Year(),
		"lang":          lang,
	}
	for k, v := range extra {
		values[k] = v
	}
	return values
}

func displayName(user model.User) string {
	if name := user.FullName(); name != "" {
		return name
	}
	return user.Username
}

func (d *Dispatcher) send(ctx context.Context, user model.User, template, lang string, priority int, extra map[string]any) error {
	if extra == nil {
		extra = map[string]any{}
	}
	extra["name"] = displayName(user)

	_, err := d.QueueEmail(ctx, EmailRequest{
		To:       []string{user.Email},
		Template: template,
		Context:  extra,
		Priority: priority,
		Language: lang,
	})
	return err
}

func (d *Dispatcher) SendVerificationCode(ctx context.Context, user model.User, code, lang string) error {
	return d.send(ctx, user, model.TemplateVerificationCode, lang, model.PriorityHigh, map[string]any{
		"code":            code,
		"expires_minutes": int(d.opts.CodeTTL.Minutes()),
	})
}

func (d *Dispatcher) SendWelcome(ctx context.Context, user model.User, lang string) error {
	return d.send(ctx, user, model.TemplateWelcome, lang, model.PriorityLow, map[string]any{
		"login_url": d.opts.FrontendURL + "/login",
	})
}

func (d *Dispatcher) SendPasswordReset(ctx context.Context, user model.User, code, lang string) error {
	return d.send(ctx, user, model.TemplatePasswordReset, lang, model.PriorityHigh, map[string]any{
		"code":            code,
		"expires_minutes": int(d.opts.CodeTTL.Minutes()),
	})
}

func (d *Dispatcher) SendPasswordChanged(ctx context.Context, user model.User, lang string) error {
	return d.send(ctx, user, model.TemplatePasswordChanged, lang, model.PriorityNormal, nil)
}

// FailedEmails lists jobs that ran out of attempts, most recent first.
func (d *Dispatcher) FailedEmails(ctx context.Context, limit int) ([]model.EmailJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	jobs, err := d.queue.ListFailed(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed emails: %w", err)
	}
	return jobs, nil
}

func (d *Dispatcher) RequeueEmail(ctx context.Context, id uuid.UUID) error {
	if err := d.queue.Requeue(ctx, id); err != nil {
		return emailJobError(err)
	}

	d.logger.Info("Notification service: failed email requeued",
		"job_id", id)
	return nil
}

var subjects = map[string]map[string]string{
	model.TemplateVerificationCode: {"en": "Verify your email", "es": "Verifica tu correo electrónico"},
	model.TemplateWelcome:          {"en": "Welcome aboard", "es": "Te damos la bienvenida"},
	model.TemplatePasswordReset:    {"en": "Reset your password", "es": "Restablece tu contraseña"},
	model.TemplatePasswordChanged:  {"en": "Your password was changed", "es": "Tu contraseña ha sido cambiada"},
}

func subjectFor(template, lang string) string {
	byLang, ok := subjects[template]
	if !ok {
		return ""
	}
	if s, ok := byLang[lang]; ok {
		return s
	}
	return byLang["en"]
}
