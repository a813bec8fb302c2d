package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hr-onboarding/internal/logger"
	"hr-onboarding/internal/models"
)

var (
	imageTypes    = []string{"image/jpeg", "image/png"}
	documentTypes = []string{
		"image/jpeg",
		"image/png",
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}

	unsafeName = regexp.MustCompile(`[<>:"/\\|?*\s]`)
)

// Limits caps the upload size per slot kind.
type Limits struct {
	ProfilePic int64
	Document   int64
}

// Stash keeps uploaded documents on local disk. Files are written to a staging
// directory next to the stash directory and moved in by Promote.
type Stash struct {
	dir     string
	staging string
	limits  Limits
	now     func() time.Time
	log     zerolog.Logger
}

// StagedFile is an upload that has been validated and written to staging.
type StagedFile struct {
	Slot models.Slot
	// Name is the sanitized original filename shown to users.
	Name string
	// Path is where the file lives once promoted; it is what the record stores.
	Path string
	// ContentType is the sniffed MIME type.
	ContentType string
	Size        int64

	staged   string
	promoted bool
}

func (f *StagedFile) Stored() models.StoredFile {
	return models.StoredFile{Name: f.Name, Path: f.Path}
}

func New(dir string, limits Limits) (*Stash, error) {
	dir = filepath.Clean(dir)
	staging := filepath.Join(filepath.Dir(dir), "."+filepath.Base(dir)+"-staging")
	for _, d := range []string{dir, staging} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", d, err)
		}
	}
	return &Stash{
		dir:     dir,
		staging: staging,
		limits:  limits,
		now:     time.Now,
		log:     logger.Component("stash"),
	}, nil
}

func (s *Stash) Dir() string { return s.dir }

func (s *Stash) rules(slot models.Slot) ([]string, int64) {
	if slot == models.SlotProfilePic {
		return imageTypes, s.limits.ProfilePic
	}
	return documentTypes, s.limits.Document
}

// Stage validates an upload against the slot's size and type rules and writes
// it to staging.
func (s *Stash) Stage(slot models.Slot, fh *multipart.FileHeader) (*StagedFile, error) {
	if fh == nil {
		return nil, ErrFileMissing
	}
	allowed, limit := s.rules(slot)
	if fh.Size > limit {
		return nil, &FileTooLargeError{Slot: slot, Limit: limit, Size: fh.Size}
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", slot, err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("detect type %s: %w", slot, err)
	}
	if !isAllowed(mt, allowed) {
		return nil, &InvalidFileTypeError{Slot: slot, Allowed: allowed, Got: mt.String()}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload %s: %w", slot, err)
	}

	display := Sanitize(fh.Filename)
	stored := fmt.Sprintf("%d_%s_%s", s.now().UnixMilli(), uuid.NewString()[:8], display)
	staged := filepath.Join(s.staging, stored)

	dst, err := os.OpenFile(staged, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}
	n, err := io.Copy(dst, io.LimitReader(src, limit+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(staged)
		return nil, fmt.Errorf("write staged file: %w", err)
	}
	if n > limit {
		_ = os.Remove(staged)
		return nil, &FileTooLargeError{Slot: slot, Limit: limit, Size: n}
	}

	return &StagedFile{
		Slot:        slot,
		Name:        display,
		Path:        filepath.ToSlash(filepath.Join(s.dir, stored)),
		ContentType: mt.String(),
		Size:        n,
		staged:      staged,
	}, nil
}

func isAllowed(mt *mimetype.MIME, allowed []string) bool {
	for _, a := range allowed {
		if mt.Is(a) {
			return true
		}
	}
	return false
}

// Promote moves staged files into the stash directory. Files promoted before a
// failure stay promoted; the caller is expected to Discard all of them.
func (s *Stash) Promote(files []*StagedFile) error {
	for _, f := range files {
		if f.promoted {
			continue
		}
		if err := os.Rename(f.staged, filepath.FromSlash(f.Path)); err != nil {
			return fmt.Errorf("promote %s: %w", f.Slot, err)
		}
		f.promoted = true
	}
	return nil
}

// Discard removes staged and promoted copies. Errors are logged, not returned.
func (s *Stash) Discard(files []*StagedFile) {
	for _, f := range files {
		target := f.staged
		if f.promoted {
			target = filepath.FromSlash(f.Path)
		}
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", target).Msg("discard upload")
		}
	}
}

// Resolve maps a stored path to a readable file inside the stash directory.
func (s *Stash) Resolve(path string) (string, error) {
	if path == "" {
		return "", ErrFileMissing
	}
	root, err := filepath.Abs(s.dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(filepath.FromSlash(path))
	if err != nil {
		return "", err
	}
	if rel, err := filepath.Rel(root, abs); err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", ErrFileMissing
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", ErrFileMissing
	}
	return abs, nil
}

// Sanitize reduces an upload filename to a safe base name.
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = name[strings.LastIndex(name, "/")+1:]
	name = unsafeName.ReplaceAllString(name, "_")
	name = strings.Trim(name, ".")
	if name == "" {
		return "file"
	}
	return name
}
