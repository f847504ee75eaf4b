package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/fintrack/internal/database/repository"
	"github.com/jask/fintrack/internal/logger"
	"github.com/jask/fintrack/internal/mapping"
	"github.com/jask/fintrack/internal/prefs"
)

var (
	// ErrNoMapping means no usable mapping could be found or detected for a file.
	ErrNoMapping = errors.New("no usable field mapping")
	// ErrMappingNotFound means a mapping reference matched neither an id nor a name.
	ErrMappingNotFound = errors.New("field mapping not found")
)

// MappingService manages saved field mappings.
type MappingService struct {
	Store FieldMappingStore
	// Options replaces the built-in options of detected mappings when set.
	Options *repository.MappingOptions
}

// Detect guesses a mapping for headers.
func (s *MappingService) Detect(headers []string) repository.FieldMapping {
	m := mapping.Detect(headers)
	if s.Options != nil {
		m.Options = *s.Options
	}
	return m
}

// Save stores m. A mapping without an id takes over the id of a stored
// mapping with the same name, otherwise it gets a new one.
func (s *MappingService) Save(ctx context.Context, m repository.FieldMapping) (repository.FieldMapping, error) {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return repository.FieldMapping{}, errors.New("save mapping: name is required")
	}
	if m.ID == "" {
		existing, err := s.Store.ByName(ctx, m.Name)
		if err != nil {
			return repository.FieldMapping{}, fmt.Errorf("save mapping %q: %w", m.Name, err)
		}
		if existing != nil {
			m.ID = existing.ID
		} else {
			m.ID = uuid.NewString()
		}
	}
	if err := s.Store.Save(ctx, m); err != nil {
		return repository.FieldMapping{}, fmt.Errorf("save mapping %q: %w", m.Name, err)
	}
	return m, nil
}

func (s *MappingService) List(ctx context.Context) ([]repository.FieldMapping, error) {
	ms, err := s.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	return ms, nil
}

// Get resolves ref as an id first and then as a name.
func (s *MappingService) Get(ctx context.Context, ref string) (repository.FieldMapping, error) {
	m, err := s.Store.Get(ctx, ref)
	if err != nil {
		return repository.FieldMapping{}, fmt.Errorf("get mapping %q: %w", ref, err)
	}
	if m == nil {
		m, err = s.Store.ByName(ctx, ref)
		if err != nil {
			return repository.FieldMapping{}, fmt.Errorf("get mapping %q: %w", ref, err)
		}
	}
	if m == nil {
		return repository.FieldMapping{}, fmt.Errorf("%w: %q", ErrMappingNotFound, ref)
	}
	return *m, nil
}

func (s *MappingService) FindBySource(ctx context.Context, source string) ([]repository.FieldMapping, error) {
	ms, err := s.Store.FindBySource(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("find mappings for %q: %w", source, err)
	}
	return ms, nil
}

func (s *MappingService) Delete(ctx context.Context, ref string) error {
	m, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, m.ID); err != nil {
		return fmt.Errorf("delete mapping %q: %w", ref, err)
	}
	return nil
}

// Resolve picks the mapping for a file: the one named by ref, else the first
// saved for source, else one detected from headers. A detected mapping that
// cannot locate dates and amounts yields ErrNoMapping.
func (s *MappingService) Resolve(ctx context.Context, ref, source string, headers []string) (repository.FieldMapping, error) {
	if ref != "" {
		return s.Get(ctx, ref)
	}
	if source != "" {
		ms, err := s.FindBySource(ctx, source)
		if err != nil {
			return repository.FieldMapping{}, err
		}
		if len(ms) > 0 {
			return ms[0], nil
		}
	}
	m := s.Detect(headers)
	if m.Mappings.Date == "" || m.Mappings.Amount == "" {
		return repository.FieldMapping{}, fmt.Errorf("%w: headers %v", ErrNoMapping, headers)
	}
	m.SourceIdentifier = source
	return m, nil
}

// LoadPresets saves every mapping from the presets file at path, matching by
// name. It returns how many were loaded.
func (s *MappingService) LoadPresets(ctx context.Context, path string) (int, error) {
	log := logger.FromContext(ctx)
	presets, err := prefs.LoadMappings(path)
	if err != nil {
		return 0, fmt.Errorf("load presets: %w", err)
	}
	for _, p := range presets {
		p.ID = ""
		if _, err := s.Save(ctx, p); err != nil {
			return 0, err
		}
	}
	log.Debug().Str("path", path).Int("count", len(presets)).Msg("mapping presets loaded")
	return len(presets), nil
}

// ExportPresets writes all saved mappings to path.
func (s *MappingService) ExportPresets(ctx context.Context, path string) error {
	ms, err := s.List(ctx)
	if err != nil {
		return err
	}
	if err := prefs.SaveMappings(path, ms); err != nil {
		return fmt.Errorf("export presets: %w", err)
	}
	return nil
}
