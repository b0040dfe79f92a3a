package service

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spshpau/project-service/internal/domain"
	"github.com/spshpau/project-service/internal/storage"
)

// MaxFileSize caps uploads at 50 MiB.
const MaxFileSize = 50 << 20

var allowedContentTypes = map[string]struct{}{
	"audio/mpeg":      {},
	"audio/wav":       {},
	"audio/x-wav":     {},
	"application/pdf": {},
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

type Memberships interface {
	VerifyMember(ctx context.Context, projectID, userID uuid.UUID) error
}

type IdentityResolver interface {
	ResolveOrCreate(ctx context.Context, summary domain.UserSummary) (*domain.User, error)
}

type Repository interface {
	Create(ctx context.Context, f *domain.ProjectFile) (*domain.ProjectFile, error)
	GetByIDAndProject(ctx context.Context, fileID, projectID uuid.UUID) (*domain.ProjectFile, error)
	ListLatest(ctx context.Context, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.ProjectFile], error)
	ListVersions(ctx context.Context, projectID uuid.UUID, filename string) ([]domain.ProjectFile, error)
	Delete(ctx context.Context, fileID uuid.UUID) error
}

// URLCache is best-effort: misses and outages degrade to re-signing.
type URLCache interface {
	Get(ctx context.Context, fileID uuid.UUID) string
	Set(ctx context.Context, fileID uuid.UUID, url string, signedTTL time.Duration)
	Invalidate(ctx context.Context, fileID uuid.UUID)
}

type FileService struct {
	repo       Repository
	store      storage.ObjectStorage
	members    Memberships
	identity   IdentityResolver
	cache      URLCache
	presignTTL time.Duration
}

func NewFileService(repo Repository, store storage.ObjectStorage, members Memberships, identity IdentityResolver, cache URLCache, presignTTL time.Duration) *FileService {
	return &FileService{
		repo:       repo,
		store:      store,
		members:    members,
		identity:   identity,
		cache:      cache,
		presignTTL: presignTTL,
	}
}

// SanitizeFilename replaces anything outside [a-zA-Z0-9._-] with an
// underscore.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

func objectKey(projectID uuid.UUID, filename string) string {
	return fmt.Sprintf("projects/%s/files/%s", projectID, filename)
}

// Upload stores a new version of a file. Re-uploading an existing filename
// never overwrites history: the object store keeps the old version and a
// fresh metadata row is written.
func (s *FileService) Upload(ctx context.Context, uploader domain.UserSummary, projectID uuid.UUID, body io.Reader, filename, contentType string, size int64, description string) (*domain.ProjectFile, error) {
	if err := s.members.VerifyMember(ctx, projectID, uploader.ID); err != nil {
		return nil, err
	}

	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, fmt.Errorf("%w: content type %q is not allowed", domain.ErrInvalidInput, contentType)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidInput)
	}
	if size > MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds the %d byte limit", domain.ErrInvalidInput, MaxFileSize)
	}

	user, err := s.identity.ResolveOrCreate(ctx, uploader)
	if err != nil {
		return nil, err
	}

	// The sanitized form is only ever the object key; metadata keeps the
	// name the user gave us.
	key := objectKey(projectID, SanitizeFilename(filename))

	versionID, err := s.store.Put(ctx, key, body, contentType, size, map[string]string{
		"project-id":  projectID.String(),
		"uploaded-by": user.ID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if versionID == "" {
		return nil, fmt.Errorf("%w: bucket did not return a version id", domain.ErrStorage)
	}

	return s.repo.Create(ctx, &domain.ProjectFile{
		ProjectID:        projectID,
		UploadedBy:       *user,
		OriginalFilename: filename,
		StorageKey:       key,
		StorageVersionID: versionID,
		ContentType:      contentType,
		FileSize:         size,
		Description:      description,
	})
}

// List returns the current version of every filename in the project.
func (s *FileService) List(ctx context.Context, callerID, projectID uuid.UUID, page domain.Pageable) (domain.Page[domain.ProjectFile], error) {
	var zero domain.Page[domain.ProjectFile]
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return zero, err
	}
	return s.repo.ListLatest(ctx, projectID, page)
}

// ListVersions returns the full history of one filename, newest first.
func (s *FileService) ListVersions(ctx context.Context, callerID, projectID uuid.UUID, filename string) ([]domain.ProjectFile, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListVersions(ctx, projectID, filename)
}

// StorageVersions lists the bucket-side versions of one file's key. This is
// the raw object-store view, which can differ from the metadata history
// after partial deletes.
func (s *FileService) StorageVersions(ctx context.Context, callerID, projectID, fileID uuid.UUID) ([]storage.ObjectVersion, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	f, err := s.repo.GetByIDAndProject(ctx, fileID, projectID)
	if err != nil {
		return nil, err
	}
	versions, err := s.store.ListVersions(ctx, f.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return versions, nil
}

func (s *FileService) Get(ctx context.Context, callerID, projectID, fileID uuid.UUID) (*domain.ProjectFile, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.repo.GetByIDAndProject(ctx, fileID, projectID)
}

// Download returns a time-limited signed URL for one stored version. URLs
// are cached per file row for slightly less than their signed lifetime.
func (s *FileService) Download(ctx context.Context, callerID, projectID, fileID uuid.UUID) (*domain.FileDownload, error) {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	f, err := s.repo.GetByIDAndProject(ctx, fileID, projectID)
	if err != nil {
		return nil, err
	}

	if f.StorageKey == "" || f.StorageVersionID == "" {
		return nil, fmt.Errorf("%w: file %s has no storage location", domain.ErrStorage, f.ID)
	}

	if url := s.cache.Get(ctx, f.ID); url != "" {
		return &domain.FileDownload{URL: url, Filename: f.OriginalFilename}, nil
	}

	url, err := s.store.PresignDownload(ctx, f.StorageKey, f.StorageVersionID, s.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	s.cache.Set(ctx, f.ID, url, s.presignTTL)
	return &domain.FileDownload{URL: url, Filename: f.OriginalFilename}, nil
}

// Delete removes one stored version. The object store delete runs first;
// if it fails the metadata row stays, so the version remains reachable.
func (s *FileService) Delete(ctx context.Context, callerID, projectID, fileID uuid.UUID) error {
	if err := s.members.VerifyMember(ctx, projectID, callerID); err != nil {
		return err
	}
	f, err := s.repo.GetByIDAndProject(ctx, fileID, projectID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteVersion(ctx, f.StorageKey, f.StorageVersionID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if err := s.repo.Delete(ctx, f.ID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, f.ID)
	return nil
}
