package professional

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
	appointmentdomain "github.com/BruksfildServices01/seucuidado/internal/domain/appointment"
	domain "github.com/BruksfildServices01/seucuidado/internal/domain/professional"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/infra/storage"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

// MaxDocumentSize is the largest accepted upload, before optimization.
const MaxDocumentSize = 10 << 20

// Upload is one file received from the intake form.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// ProfileView is what the professional sees on the profile page.
type ProfileView struct {
	Professional *models.Professional `json:"professional"`
	Completeness domain.Completeness  `json:"completeness"`
}

// Service covers the professional side of the marketplace: profile,
// verification documents, approval and weekly schedule. A nil store means
// uploads are not configured.
type Service struct {
	repo  domain.Repository
	store storage.Store
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewService(repo domain.Repository, store storage.Store, audit *audit.Dispatcher) *Service {
	return &Service{repo: repo, store: store, audit: audit, now: time.Now}
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func view(p *models.Professional) *ProfileView {
	return &ProfileView{Professional: p, Completeness: domain.Evaluate(p)}
}

func (s *Service) Profile(ctx context.Context, userID uint) (*ProfileView, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return view(p), nil
}

// ======================================================
// UPDATE
// ======================================================

func (s *Service) UpdateProfile(ctx context.Context, userID uint, in domain.ProfileUpdate) (*ProfileView, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.PricePerHour != nil {
		if err := domain.ValidatePrice(*in.PricePerHour); err != nil {
			return nil, err
		}
	}
	if in.RadiusKM != nil && *in.RadiusKM < 1 {
		one := 1
		in.RadiusKM = &one
	}

	updated, err := s.repo.UpdateProfile(ctx, p.ID, in)
	if err != nil {
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "profile_updated",
		Entity:   "professional",
		EntityID: idString(p.ID),
	})

	return view(updated), nil
}

// ======================================================
// DOCUMENTS
// ======================================================

// UploadDocuments stores every file and appends its descriptor to the
// profile. Nothing is appended when any upload fails.
func (s *Service) UploadDocuments(ctx context.Context, userID uint, files []Upload) (*ProfileView, error) {
	if s.store == nil {
		return nil, httperr.ErrBusiness("uploads_disabled")
	}
	if len(files) == 0 {
		return nil, httperr.ErrBusinessDetail("invalid_file", "files")
	}

	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	docs := make([]models.Document, 0, len(files))
	for _, f := range files {
		if len(f.Data) == 0 || len(f.Data) > MaxDocumentSize {
			return nil, httperr.ErrBusinessDetail("invalid_file", f.Name)
		}

		name, data, contentType := storage.Optimize(f.Name, f.Data, f.ContentType)
		key := storage.ObjectKey(p.ID, s.now(), name)

		url, err := s.store.Put(ctx, key, data, contentType)
		if err != nil {
			log.Printf("upload %s for professional %d: %v", key, p.ID, err)
			return nil, err
		}

		docs = append(docs, models.Document{
			Name: f.Name,
			Path: key,
			URL:  url,
			Size: int64(len(data)),
			Type: contentType,
		})
	}

	updated, err := s.repo.AddDocuments(ctx, p.ID, docs)
	if err != nil {
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "documents_uploaded",
		Entity:   "professional",
		EntityID: idString(p.ID),
		Metadata: map[string]any{"count": len(docs)},
	})

	return view(updated), nil
}

// ======================================================
// APPROVAL
// ======================================================

// SelfApprove lets a professional with documents on file go live.
func (s *Service) SelfApprove(ctx context.Context, userID uint) (*ProfileView, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.approve(ctx, p, userID)
}

// Approve is the admin review path.
func (s *Service) Approve(ctx context.Context, professionalID, adminID uint) (*ProfileView, error) {
	p, err := s.repo.GetByID(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	return s.approve(ctx, p, adminID)
}

func (s *Service) approve(ctx context.Context, p *models.Professional, actor uint) (*ProfileView, error) {
	if p.Approved {
		return view(p), nil
	}
	if err := domain.CanApprove(p); err != nil {
		return nil, err
	}

	approved, err := s.repo.Approve(ctx, p.ID, s.now())
	if err != nil {
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		UserID:   &actor,
		Action:   "professional_approved",
		Entity:   "professional",
		EntityID: idString(p.ID),
	})

	return view(approved), nil
}

func (s *Service) ListPending(ctx context.Context) ([]models.Professional, error) {
	return s.repo.ListPending(ctx)
}

// ======================================================
// DISCOVERY
// ======================================================

func (s *Service) Search(ctx context.Context, f domain.SearchFilter) ([]models.Professional, error) {
	return s.repo.SearchApproved(ctx, f)
}

func (s *Service) Public(ctx context.Context, id uint) (*models.Professional, error) {
	return s.repo.GetApproved(ctx, id)
}

// ======================================================
// WORKING HOURS
// ======================================================

func (s *Service) WorkingHours(ctx context.Context, userID uint) ([]models.WorkingHours, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListWorkingHours(ctx, p.ID)
}

func (s *Service) ReplaceWorkingHours(ctx context.Context, userID uint, days []models.WorkingHours) error {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if err := appointmentdomain.ValidateWorkingHours(days); err != nil {
		return err
	}

	if err := s.repo.ReplaceWorkingHours(ctx, p.ID, days); err != nil {
		return err
	}

	s.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "working_hours_updated",
		Entity:   "professional",
		EntityID: idString(p.ID),
		Metadata: map[string]any{"days": len(days)},
	})
	return nil
}
