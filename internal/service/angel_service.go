package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

const (
	defaultJobPageSize = 20
	maxJobPageSize     = 100
	positionFilled     = "Position filled"
)

// CreateAngelJobInput is a new odd-job posting.
type CreateAngelJobInput struct {
	Title          string            `json:"title" validate:"required,max=200"`
	Description    string            `json:"description" validate:"required,max=5000"`
	Category       string            `json:"category" validate:"required,max=64"`
	Location       model.JobLocation `json:"location"`
	HourlyRate     *decimal.Decimal  `json:"hourlyRate"`
	EstimatedHours *float64          `json:"estimatedHours" validate:"omitempty,gt=0"`
	Skills         []string          `json:"skills" validate:"max=20,dive,max=50"`
	Urgency        string            `json:"urgency" validate:"omitempty,oneof=low normal high urgent"`
	Featured       bool              `json:"featured"`
}

// AngelJobQuery filters the public job board. Status defaults to open and
// "all" lists every status.
type AngelJobQuery struct {
	Category string
	City     string
	Urgency  string
	Status   string
	Search   string
	Page     int
	Limit    int
}

// JobPagination describes one page of the job board.
type JobPagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// AngelJobPage is one page of job postings.
type AngelJobPage struct {
	Jobs       []model.AngelJob `json:"jobs"`
	Pagination JobPagination    `json:"pagination"`
}

// JobPerson is the public card of a poster or applicant.
type JobPerson struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ProfilePicture *string  `json:"profilePicture"`
	Rating         *float64 `json:"rating"`
	SkillsOffered  []string `json:"skillsOffered,omitempty"`
}

// AngelJobDetail is a job with its poster.
type AngelJobDetail struct {
	model.AngelJob
	Poster JobPerson `json:"poster"`
}

// ApplyInput is an offer to take a job.
type ApplyInput struct {
	Message      string           `json:"message" validate:"max=1000"`
	ProposedRate *decimal.Decimal `json:"proposedRate"`
}

// ApplicationWithApplicant pairs an application with the applicant's card.
type ApplicationWithApplicant struct {
	model.AngelApplication
	Applicant JobPerson `json:"applicant"`
}

// JobApplications lists the applications on one job.
type JobApplications struct {
	JobID        uuid.UUID                  `json:"jobId"`
	JobTitle     string                     `json:"jobTitle"`
	Applications []ApplicationWithApplicant `json:"applications"`
}

// RespondInput is the poster's decision on an application.
type RespondInput struct {
	Status  string `json:"status" validate:"required"`
	Message string `json:"message" validate:"max=500"`
}

// CompleteJobInput closes a job with an optional rating of the work.
type CompleteJobInput struct {
	Rating *int   `json:"rating" validate:"omitempty,min=1,max=5"`
	Review string `json:"review" validate:"max=1000"`
}

// ActivityApplication is one of the caller's applications with its job.
type ActivityApplication struct {
	JobID       uuid.UUID              `json:"jobId"`
	JobTitle    string                 `json:"jobTitle"`
	JobCategory string                 `json:"jobCategory"`
	JobPoster   string                 `json:"jobPoster"`
	JobStatus   model.AngelJobStatus   `json:"jobStatus"`
	Application model.AngelApplication `json:"application"`
}

// ActivityStats summarizes a user's job board activity.
type ActivityStats struct {
	TotalJobsPosted   int `json:"totalJobsPosted"`
	TotalApplications int `json:"totalApplications"`
	ActiveJobs        int `json:"activeJobs"`
	CompletedJobs     int `json:"completedJobs"`
}

// AngelActivity is everything a user posted or applied to.
type AngelActivity struct {
	PostedJobs   []model.AngelJob      `json:"postedJobs"`
	Applications []ActivityApplication `json:"applications"`
	Statistics   ActivityStats         `json:"statistics"`
}

// AngelService runs the Angel's List odd-job board.
type AngelService interface {
	CreateJob(ctx context.Context, uid string, in CreateAngelJobInput) (*model.AngelJob, error)
	ListJobs(ctx context.Context, q AngelJobQuery) (*AngelJobPage, error)
	GetJob(ctx context.Context, id uuid.UUID) (*AngelJobDetail, error)
	Apply(ctx context.Context, uid string, jobID uuid.UUID, in ApplyInput) (*model.AngelApplication, error)
	Applications(ctx context.Context, uid string, jobID uuid.UUID) (*JobApplications, error)
	Respond(ctx context.Context, uid string, jobID uuid.UUID, applicantID string, in RespondInput) (*model.AngelApplication, error)
	Complete(ctx context.Context, uid string, jobID uuid.UUID, in CompleteJobInput) (*model.AngelJob, error)
	MyActivity(ctx context.Context, uid string) (*AngelActivity, error)
}

type angelService struct {
	repo          repository.AngelRepository
	users         repository.UserRepository
	notifications NotificationService
	log           *zap.Logger
	now           func() time.Time
}

// NewAngelService builds an AngelService.
func NewAngelService(
	repo repository.AngelRepository,
	users repository.UserRepository,
	notifications NotificationService,
	log *zap.Logger,
) AngelService {
	if log == nil {
		log = zap.NewNop()
	}
	return &angelService{
		repo:          repo,
		users:         users,
		notifications: notifications,
		log:           log,
		now:           time.Now,
	}
}

func (s *angelService) CreateJob(ctx context.Context, uid string, in CreateAngelJobInput) (*model.AngelJob, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	category := strings.TrimSpace(in.Category)
	city := strings.TrimSpace(in.Location.City)
	if title == "" || description == "" || category == "" || city == "" {
		return nil, apperrors.Invalid("Missing required fields: title, description, category, location")
	}
	if in.HourlyRate != nil && in.HourlyRate.IsNegative() {
		return nil, apperrors.Invalid("hourlyRate cannot be negative")
	}
	urgency := in.Urgency
	if urgency == "" {
		urgency = "normal"
	}
	skills := make([]string, 0, len(in.Skills))
	for _, sk := range in.Skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}

	job := &model.AngelJob{
		PostedBy:    uid,
		Title:       title,
		Description: description,
		Category:    category,
		Location: model.JobLocation{
			City:    city,
			State:   strings.TrimSpace(in.Location.State),
			Address: strings.TrimSpace(in.Location.Address),
		},
		HourlyRate:     in.HourlyRate,
		EstimatedHours: in.EstimatedHours,
		Skills:         skills,
		Urgency:        urgency,
		Featured:       in.Featured,
		Status:         model.AngelJobOpen,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	s.log.Info("angel job posted",
		zap.String("job_id", job.ID.String()),
		zap.String("user_id", uid),
		zap.String("category", category),
		zap.Bool("featured", in.Featured),
	)
	return job, nil
}

func (s *angelService) ListJobs(ctx context.Context, q AngelJobQuery) (*AngelJobPage, error) {
	limit := clampLimit(q.Limit, defaultJobPageSize, maxJobPageSize)
	page := q.Page
	if page < 1 {
		page = 1
	}
	status := model.AngelJobStatus(q.Status)
	switch q.Status {
	case "":
		status = model.AngelJobOpen
	case "all":
		status = ""
	}

	jobs, total, err := s.repo.ListJobs(ctx, repository.AngelJobFilter{
		Category: strings.TrimSpace(q.Category),
		City:     q.City,
		Urgency:  strings.TrimSpace(q.Urgency),
		Status:   status,
		Search:   q.Search,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}
	if err := s.attachCounts(ctx, jobs); err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []model.AngelJob{}
	}
	return &AngelJobPage{
		Jobs: jobs,
		Pagination: JobPagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (s *angelService) attachCounts(ctx context.Context, jobs []model.AngelJob) error {
	if len(jobs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	counts, err := s.repo.CountApplications(ctx, ids)
	if err != nil {
		return err
	}
	for i := range jobs {
		jobs[i].ApplicationCount = counts[jobs[i].ID]
	}
	return nil
}

// person loads the public card for uid; unknown users show as Anonymous.
func (s *angelService) person(ctx context.Context, uid string, withSkills bool) (JobPerson, error) {
	p := JobPerson{ID: uid, Name: "Anonymous"}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		if isNotFound(err) {
			if withSkills {
				p.SkillsOffered = []string{}
			}
			return p, nil
		}
		return p, err
	}
	if u.DisplayName != "" {
		p.Name = u.DisplayName
	}
	if u.PhotoURL != "" {
		photo := u.PhotoURL
		p.ProfilePicture = &photo
	}
	if u.RatingCount > 0 {
		rating := u.Rating
		p.Rating = &rating
	}
	if withSkills {
		p.SkillsOffered = u.SkillsOffered
		if p.SkillsOffered == nil {
			p.SkillsOffered = []string{}
		}
	}
	return p, nil
}

func (s *angelService) GetJob(ctx context.Context, id uuid.UUID) (*AngelJobDetail, error) {
	job, err := s.repo.FindJob(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrAngelJobNotFound)
	}
	jobs := []model.AngelJob{*job}
	if err := s.attachCounts(ctx, jobs); err != nil {
		return nil, err
	}
	poster, err := s.person(ctx, job.PostedBy, false)
	if err != nil {
		return nil, err
	}
	return &AngelJobDetail{AngelJob: jobs[0], Poster: poster}, nil
}

func (s *angelService) Apply(ctx context.Context, uid string, jobID uuid.UUID, in ApplyInput) (*model.AngelApplication, error) {
	job, err := s.repo.FindJob(ctx, jobID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrAngelJobNotFound)
	}
	if job.PostedBy == uid {
		return nil, apperrors.ErrOwnJobApplication
	}
	if job.Status != model.AngelJobOpen {
		return nil, apperrors.ErrJobNotOpen
	}
	if _, err := s.repo.FindApplication(ctx, jobID, uid); err == nil {
		return nil, apperrors.ErrAlreadyApplied
	} else if !isNotFound(err) {
		return nil, err
	}

	app := &model.AngelApplication{
		JobID:        jobID,
		ApplicantID:  uid,
		Message:      strings.TrimSpace(in.Message),
		ProposedRate: in.ProposedRate,
		Status:       model.ApplicationPending,
		AppliedAt:    s.now(),
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	s.log.Info("angel application submitted",
		zap.String("job_id", jobID.String()),
		zap.String("applicant_id", uid),
	)
	if err := s.notifications.Notify(ctx, job.PostedBy, model.NotificationJobApplication, "New application",
		"Someone applied to "+truncate(job.Title, 80),
		map[string]string{"jobId": jobID.String(), "applicantId": uid}); err != nil {
		s.log.Warn("job application notification", zap.String("job_id", jobID.String()), zap.Error(err))
	}
	return app, nil
}

func (s *angelService) Applications(ctx context.Context, uid string, jobID uuid.UUID) (*JobApplications, error) {
	job, err := s.repo.FindJob(ctx, jobID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrAngelJobNotFound)
	}
	if job.PostedBy != uid {
		return nil, apperrors.ErrNotJobPoster
	}
	apps, err := s.repo.ListApplications(ctx, jobID)
	if err != nil {
		return nil, err
	}
	out := &JobApplications{JobID: jobID, JobTitle: job.Title, Applications: make([]ApplicationWithApplicant, 0, len(apps))}
	for _, a := range apps {
		applicant, err := s.person(ctx, a.ApplicantID, true)
		if err != nil {
			return nil, err
		}
		out.Applications = append(out.Applications, ApplicationWithApplicant{AngelApplication: a, Applicant: applicant})
	}
	return out, nil
}

// Respond records the poster's decision. Accepting assigns the job and
// rejects every other pending application in the same transaction.
func (s *angelService) Respond(ctx context.Context, uid string, jobID uuid.UUID, applicantID string, in RespondInput) (*model.AngelApplication, error) {
	status := model.ApplicationStatus(in.Status)
	if status != model.ApplicationAccepted && status != model.ApplicationRejected {
		return nil, apperrors.Invalid(`Status must be either "accepted" or "rejected"`)
	}

	var (
		app      *model.AngelApplication
		jobTitle string
		rejected int64
	)
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.AngelRepository) error {
		job, err := repo.FindJobForUpdate(ctx, jobID)
		if err != nil {
			return notFound(err, apperrors.ErrAngelJobNotFound)
		}
		if job.PostedBy != uid {
			return apperrors.ErrForbidden
		}
		app, err = repo.FindApplication(ctx, jobID, applicantID)
		if err != nil {
			return notFound(err, apperrors.ErrApplicationNotFound)
		}
		if status == model.ApplicationAccepted && job.Status != model.AngelJobOpen {
			return apperrors.ErrJobNotOpen
		}

		now := s.now()
		app.Status = status
		app.ResponseMessage = strings.TrimSpace(in.Message)
		app.RespondedAt = &now
		if err := repo.UpdateApplication(ctx, app); err != nil {
			return err
		}
		jobTitle = job.Title
		if status != model.ApplicationAccepted {
			return nil
		}

		job.Status = model.AngelJobAssigned
		job.AssignedTo = applicantID
		job.AssignedAt = &now
		if err := repo.UpdateJob(ctx, job); err != nil {
			return err
		}
		rejected, err = repo.RejectPendingExcept(ctx, jobID, applicantID, positionFilled, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("angel application answered",
		zap.String("job_id", jobID.String()),
		zap.String("applicant_id", applicantID),
		zap.String("status", string(status)),
		zap.Int64("others_rejected", rejected),
	)
	if err := s.notifications.Notify(ctx, applicantID, model.NotificationApplicationUpdate, "Application "+string(status),
		"Your application to "+truncate(jobTitle, 80)+" was "+string(status)+".",
		map[string]string{"jobId": jobID.String(), "status": string(status)}); err != nil {
		s.log.Warn("application update notification", zap.String("job_id", jobID.String()), zap.Error(err))
	}
	return app, nil
}

func (s *angelService) Complete(ctx context.Context, uid string, jobID uuid.UUID, in CompleteJobInput) (*model.AngelJob, error) {
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, apperrors.Invalid("Rating must be between 1 and 5")
	}
	job, err := s.repo.FindJob(ctx, jobID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrAngelJobNotFound)
	}
	if job.PostedBy != uid && job.AssignedTo != uid {
		return nil, apperrors.ErrForbidden
	}
	if job.Status == model.AngelJobCompleted {
		return nil, apperrors.ErrJobAlreadyCompleted
	}

	now := s.now()
	job.Status = model.AngelJobCompleted
	job.CompletedAt = &now
	job.CompletedBy = uid
	job.Rating = in.Rating
	job.Review = strings.TrimSpace(in.Review)
	if err := s.repo.UpdateJob(ctx, job); err != nil {
		return nil, err
	}
	s.log.Info("angel job completed", zap.String("job_id", jobID.String()), zap.String("user_id", uid))
	return job, nil
}

func (s *angelService) MyActivity(ctx context.Context, uid string) (*AngelActivity, error) {
	posted, err := s.repo.ListJobsByPoster(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := s.attachCounts(ctx, posted); err != nil {
		return nil, err
	}
	apps, err := s.repo.ListApplicationsByApplicant(ctx, uid)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(apps))
	for i, a := range apps {
		ids[i] = a.JobID
	}
	jobs, err := s.repo.FindJobs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.AngelJob, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}

	out := &AngelActivity{
		PostedJobs:   posted,
		Applications: make([]ActivityApplication, 0, len(apps)),
	}
	if out.PostedJobs == nil {
		out.PostedJobs = []model.AngelJob{}
	}
	for _, a := range apps {
		j, ok := byID[a.JobID]
		if !ok {
			continue
		}
		out.Applications = append(out.Applications, ActivityApplication{
			JobID:       j.ID,
			JobTitle:    j.Title,
			JobCategory: j.Category,
			JobPoster:   j.PostedBy,
			JobStatus:   j.Status,
			Application: a,
		})
	}
	out.Statistics = ActivityStats{TotalJobsPosted: len(posted), TotalApplications: len(out.Applications)}
	for _, j := range posted {
		switch j.Status {
		case model.AngelJobOpen:
			out.Statistics.ActiveJobs++
		case model.AngelJobCompleted:
			out.Statistics.CompletedJobs++
		}
	}
	return out, nil
}
