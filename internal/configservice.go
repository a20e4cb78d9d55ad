package internal

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/net/context"

	"github.com/derWhity/hackpulse/internal/ctxhelper"
	"github.com/derWhity/hackpulse/internal/log"
	"github.com/derWhity/hackpulse/internal/models"
)

var (
	// ErrIllegalTag is the error returned when the provided tag is empty
	ErrIllegalTag = MakeError(http.StatusBadRequest, ErrCodeIllegalValue, "Tags must not be empty")
)

// ConfigService gives access to the application's configuration and the tag catalog stored inside it
type ConfigService interface {
	// Tags returns the tag catalog in display order
	Tags(ctx context.Context) []string
	// AddTag appends a tag to the catalog and persists the configuration
	AddTag(ctx context.Context, tag string) error
	// RemoveTag removes a tag from the catalog and persists the configuration
	RemoveTag(ctx context.Context, tag string) error
	// HasTag checks if the given tag is part of the catalog
	HasTag(tag string) bool
	// Load loads the application config from its default file location
	Load(ctx context.Context) error
	// LoadFromFile loads the configuration from the given JSON file and returns it
	LoadFromFile(ctx context.Context, filename string) error
	// Write writes the current application configuration to the default file name
	Write(ctx context.Context) error
	// WriteToFile writes the current application configuration to a JSON file
	WriteToFile(ctx context.Context, filename string) error
	// GetConfig retuns the current application configuration
	GetConfig(ctx context.Context) models.AppConfig
}

// -- ConfigService implementation -------------------------------------------------------------------------------------

// Simple index structure to speed up tag lookups while keeping the display order. The lock also guards the
// configuration the index is built from.
type tagIdx struct {
	sync.RWMutex
	order []string
	data  map[string]bool
}

type configService struct {
	configFilename string
	config         *models.AppConfig
	tags           *tagIdx
	// Serializes writes to the configuration file
	fileMtx sync.Mutex
}

// NewConfigService creates a new configuration service instance with the given default file name
func NewConfigService(configFilename string) ConfigService {
	return &configService{
		configFilename: configFilename,
		tags: &tagIdx{
			data: make(map[string]bool),
		},
	}
}

// buildTagIdx rebuilds the tag index from the current configuration. The caller must hold the write lock.
func (s *configService) buildTagIdx() {
	s.tags.order = nil
	s.tags.data = make(map[string]bool)
	if s.config != nil {
		for _, tag := range s.config.Tags {
			if !s.tags.data[tag] {
				s.tags.data[tag] = true
				s.tags.order = append(s.tags.order, tag)
			}
		}
	}
}

// Tags returns the tag catalog in display order
func (s *configService) Tags(ctx context.Context) []string {
	s.tags.RLock()
	defer s.tags.RUnlock()
	if s.config == nil {
		return append([]string{}, models.DefaultTags...)
	}
	return append([]string{}, s.tags.order...)
}

// AddTag appends a tag to the catalog
func (s *configService) AddTag(ctx context.Context, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ErrIllegalTag
	}
	s.tags.Lock()
	s.ensureConfig()
	if s.tags.data[tag] {
		// Already part of the catalog - just ignore
		s.tags.Unlock()
		return nil
	}
	ctxhelper.Logger(ctx).WithField(log.FldTag, tag).Info("Adding tag to catalog")
	s.tags.data[tag] = true
	s.tags.order = append(s.tags.order, tag)
	s.config.Tags = append([]string{}, s.tags.order...)
	s.tags.Unlock()
	return s.Write(ctx)
}

// RemoveTag removes a tag from the catalog
func (s *configService) RemoveTag(ctx context.Context, tag string) error {
	s.tags.Lock()
	s.ensureConfig()
	if !s.tags.data[tag] {
		s.tags.Unlock()
		return ErrTagNotFound
	}
	ctxhelper.Logger(ctx).WithField(log.FldTag, tag).Info("Removing tag from catalog")
	delete(s.tags.data, tag)
	order := make([]string, 0, len(s.tags.order))
	for _, t := range s.tags.order {
		if t != tag {
			order = append(order, t)
		}
	}
	s.tags.order = order
	s.config.Tags = append([]string{}, order...)
	s.tags.Unlock()
	return s.Write(ctx)
}

// HasTag checks if the given tag is part of the catalog
func (s *configService) HasTag(tag string) bool {
	s.tags.RLock()
	defer s.tags.RUnlock()
	if s.config == nil {
		for _, t := range models.DefaultTags {
			if t == tag {
				return true
			}
		}
		return false
	}
	return s.tags.data[tag]
}

// ensureConfig falls back to the default configuration if nothing has been loaded, yet. The caller must hold the
// write lock.
func (s *configService) ensureConfig() {
	if s.config != nil {
		return
	}
	conf, err := models.GetDefaultConfig()
	if err != nil {
		conf = &models.AppConfig{Tags: append([]string{}, models.DefaultTags...)}
	}
	s.config = conf
	s.buildTagIdx()
}

// Load loads the application config from its default file location
func (s *configService) Load(ctx context.Context) error {
	return s.LoadFromFile(ctx, s.configFilename)
}

// LoadFromFile loads the configuration from the given JSON file and returns it
func (s *configService) LoadFromFile(ctx context.Context, filename string) error {
	logger := ctxhelper.Logger(ctx)
	logger.WithField(log.FldFile, filename).Info("Loading configuration file")
	conf, err := models.GetDefaultConfig()
	if err != nil {
		return errors.Wrap(err, "LoadFromFile: Failed to create default config")
	}
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "LoadFromFile: cannot load configuration file")
	}
	defer f.Close()
	if err = json.NewDecoder(f).Decode(&conf); err != nil {
		return errors.Wrap(err, "LoadFromFile: Failed to decode configuration file")
	}
	logger.Debug("Rebuilding index of catalog tags...")
	s.tags.Lock()
	s.config = conf
	s.buildTagIdx()
	s.tags.Unlock()
	return nil
}

// Write writes the current application configuration to the default file name
func (s *configService) Write(ctx context.Context) error {
	return s.WriteToFile(ctx, s.configFilename)
}

// WriteToFile writes the current application configuration to a JSON file
func (s *configService) WriteToFile(ctx context.Context, filename string) error {
	logger := ctxhelper.Logger(ctx)
	logger.WithField(log.FldFile, filename).Info("Writing configuration file")
	s.fileMtx.Lock()
	defer s.fileMtx.Unlock()
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "WriteToFile: Cannot open configuration file '%s' to write to", filename)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	conf := s.GetConfig(ctx)
	if err := enc.Encode(&conf); err != nil {
		return errors.Wrap(err, "WriteToFile: Failed to serialize configuration data")
	}
	return nil
}

// GetConfig retuns the current application configuration
func (s *configService) GetConfig(ctx context.Context) models.AppConfig {
	s.tags.RLock()
	defer s.tags.RUnlock()
	var ret models.AppConfig
	if s.config != nil {
		ret = *s.config
		ret.Tags = append([]string{}, s.config.Tags...)
	} else {
		if tmp, err := models.GetDefaultConfig(); err == nil {
			ret = *tmp
		}
	}
	return ret
}
