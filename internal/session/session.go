// Package session holds the mutable state of one BMD modeling session: the
// endpoint reference, the option catalogs, the editable model and BMR
// arrays, selection cursors, and execution flags.
//
// A Session is owned by a single goroutine. All mutation happens
// synchronously in response to discrete commands; there is no internal
// locking because there is no concurrent writer.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shapiromatron/hawc-sub006/internal/models"
	"github.com/shapiromatron/hawc-sub006/internal/settings"
	"github.com/shapiromatron/hawc-sub006/internal/validation"
)

// varianceKey is the override key flipped by ToggleVariance.
const varianceKey = "constant_variance"

var (
	// ErrNoCursor is returned when an update or delete is issued with no
	// selection cursor set. Callers are expected to prevent this.
	ErrNoCursor = errors.New("no selection cursor set")

	// ErrSessionNotReady is returned when an operation needs the session
	// settings payload before it has been received.
	ErrSessionNotReady = errors.New("session settings not received")
)

// Session is the state container for one modeling session. Construct with
// New; each session gets its own instance and is discarded when the caller
// is done with it.
type Session struct {
	logger *slog.Logger

	endpoint    *models.Endpoint
	dataType    models.DataType
	doseUnitsID int

	// Option catalogs, immutable once received.
	modelOptions []*models.ModelOptionSchema
	schemaByName map[string]*models.ModelOptionSchema
	bmrOptions   []models.BMROption

	// models is the canonical list from the remote payload (all BMR
	// associations, with outputs once executed). modelSettings is the
	// editable working set derived from it.
	models        []*models.ModelSettings
	modelSettings []*models.ModelSettings
	bmrs          []models.BMR

	// Selection cursors; nil when nothing is being edited. At most one is
	// non-nil at a time.
	selectedModelIndex *int
	selectedBMRIndex   *int

	hasEndpoint      bool
	hasSession       bool
	isExecuting      bool
	hasExecuted      bool
	validationErrors []string

	logicRules   []map[string]any
	logicApplied bool

	selectedModelID    *int
	selectedModelNotes string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		logger:       slog.Default(),
		schemaByName: map[string]*models.ModelOptionSchema{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReceiveEndpoint stores the endpoint reference and derives the data type
// from it. Receiving an endpoint invalidates any prior recommendation
// evaluation.
func (s *Session) ReceiveEndpoint(e *models.Endpoint) {
	s.endpoint = e
	s.dataType = e.DataType
	s.hasEndpoint = true
	s.logicApplied = false
	s.logger.Debug("endpoint received", "id", e.ID, "data_type", e.DataType)
}

// ReceiveSessionSettings applies the remote session payload: decodes the
// option catalogs (stamping field keys omitted by the wire format), attaches
// schema defaults to every canonical model, derives the editable working set
// from the models associated with the first BMR, and restores any previously
// selected model. It is called once at startup and again after every
// completed execution.
func (s *Session) ReceiveSessionSettings(payload *models.SessionSettings) error {
	modelOptions := make([]*models.ModelOptionSchema, 0, len(payload.AllModelOptions))
	schemaByName := make(map[string]*models.ModelOptionSchema, len(payload.AllModelOptions))
	for _, raw := range payload.AllModelOptions {
		schema, err := models.DecodeOptionSchema(raw)
		if err != nil {
			return err
		}
		modelOptions = append(modelOptions, schema)
		schemaByName[schema.Name] = schema
	}

	for _, m := range payload.Models {
		schema, ok := schemaByName[m.Name]
		if !ok {
			return fmt.Errorf("no model option schema named %q", m.Name)
		}
		m.Defaults = schema.Fields
		if m.Overrides == nil {
			m.Overrides = map[string]any{}
		}
	}

	// The editable working set holds deep copies of the first-BMR models so
	// later edits never mutate the canonical list.
	var working []*models.ModelSettings
	for _, m := range payload.Models {
		if m.BMRID == 0 {
			working = append(working, m.Clone())
		}
	}

	s.modelOptions = modelOptions
	s.schemaByName = schemaByName
	s.bmrOptions = payload.AllBMROptions
	s.models = payload.Models
	s.modelSettings = working
	s.bmrs = payload.BMRs
	s.doseUnitsID = payload.DoseUnitsID
	s.logicRules = payload.Logic
	s.hasSession = true
	s.hasExecuted = payload.IsFinished
	s.logicApplied = false
	s.selectedModelIndex = nil
	s.selectedBMRIndex = nil

	if payload.SelectedModel != nil {
		s.selectedModelID = payload.SelectedModel.ModelID
		s.selectedModelNotes = payload.SelectedModel.Notes
	}

	s.logger.Debug("session settings received",
		"models", len(payload.Models),
		"schemas", len(modelOptions),
		"bmrs", len(payload.BMRs),
		"finished", payload.IsFinished)
	return nil
}

// Ready reports whether the session can be validated and executed: both the
// endpoint and the session settings have been received.
func (s *Session) Ready() bool { return s.hasEndpoint && s.hasSession }

func (s *Session) HasEndpoint() bool { return s.hasEndpoint }
func (s *Session) HasSession() bool  { return s.hasSession }
func (s *Session) IsExecuting() bool { return s.isExecuting }
func (s *Session) HasExecuted() bool { return s.hasExecuted }

func (s *Session) Endpoint() *models.Endpoint { return s.endpoint }
func (s *Session) DataType() models.DataType  { return s.dataType }
func (s *Session) DoseUnitsID() int           { return s.doseUnitsID }

// Models returns the canonical model list from the remote payload.
func (s *Session) Models() []*models.ModelSettings { return s.models }

// ModelSettings returns the editable working set.
func (s *Session) ModelSettings() []*models.ModelSettings { return s.modelSettings }

func (s *Session) BMRs() []models.BMR { return s.bmrs }

// ModelOptions returns the immutable model option catalog.
func (s *Session) ModelOptions() []*models.ModelOptionSchema { return s.modelOptions }

// BMROptions returns the immutable BMR option catalog.
func (s *Session) BMROptions() []models.BMROption { return s.bmrOptions }

// Schema returns the option schema for a model type name.
func (s *Session) Schema(name string) (*models.ModelOptionSchema, bool) {
	schema, ok := s.schemaByName[name]
	return schema, ok
}

// LogicRules returns the raw recommendation rule set from the remote payload.
func (s *Session) LogicRules() []map[string]any { return s.logicRules }

// CreateModel appends a new model settings instance built from the option
// schema at the given catalog index. Duplicates of an existing model type
// are permitted by design.
func (s *Session) CreateModel(schemaIndex int) error {
	if schemaIndex < 0 || schemaIndex >= len(s.modelOptions) {
		return fmt.Errorf("model option index %d out of range", schemaIndex)
	}
	s.modelSettings = append(s.modelSettings, models.NewModelSettings(s.modelOptions[schemaIndex]))
	return nil
}

// AddAllModels appends one instance of every model type in the catalog. No
// duplicate check is performed.
func (s *Session) AddAllModels() {
	for _, schema := range s.modelOptions {
		s.modelSettings = append(s.modelSettings, models.NewModelSettings(schema))
	}
}

// RemoveAllModels clears the editable model list and any model cursor.
func (s *Session) RemoveAllModels() {
	s.modelSettings = nil
	s.selectedModelIndex = nil
}

// SelectModel sets the model edit cursor and returns a snapshot of the
// settings instance at that index. Selecting a model clears any BMR cursor;
// only one thing is edited at a time.
func (s *Session) SelectModel(index int) (*models.ModelSettings, error) {
	if index < 0 || index >= len(s.modelSettings) {
		return nil, fmt.Errorf("model index %d out of range", index)
	}
	s.selectedModelIndex = &index
	s.selectedBMRIndex = nil
	return s.modelSettings[index], nil
}

// UpdateModel writes the override map at the model cursor and clears the
// cursor. Every override key must name a field in the model's option schema;
// an unknown key is rejected and the cursor stays set. Calling UpdateModel
// with no cursor set is a programming error.
func (s *Session) UpdateModel(overrides map[string]any) error {
	if s.selectedModelIndex == nil {
		return ErrNoCursor
	}
	if overrides == nil {
		overrides = map[string]any{}
	}
	m := s.modelSettings[*s.selectedModelIndex]
	for key := range overrides {
		if _, ok := m.Defaults[key]; !ok {
			return fmt.Errorf("no option field %q for model %s (valid: %s)",
				key, m.Name, strings.Join(fieldKeys(m.Defaults), ", "))
		}
	}
	m.Overrides = overrides
	s.selectedModelIndex = nil
	return nil
}

func fieldKeys(fields map[string]models.Field) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DeleteModel removes the settings instance at the model cursor and clears
// the cursor.
func (s *Session) DeleteModel() error {
	if s.selectedModelIndex == nil {
		return ErrNoCursor
	}
	i := *s.selectedModelIndex
	s.modelSettings = append(s.modelSettings[:i], s.modelSettings[i+1:]...)
	s.selectedModelIndex = nil
	return nil
}

// SelectedModelIndex returns the model cursor, if set.
func (s *Session) SelectedModelIndex() (int, bool) {
	if s.selectedModelIndex == nil {
		return 0, false
	}
	return *s.selectedModelIndex, true
}

// ToggleVariance flips the constant_variance override on every editable model
// between 0 and 1. The flip always writes an explicit override, even when
// the new value matches the field default; it never removes the key.
func (s *Session) ToggleVariance() {
	for _, m := range s.modelSettings {
		current := 0
		if v, ok := m.Overrides[varianceKey]; ok && v != nil {
			if b, err := settings.DecodeBool(v); err == nil {
				current = settings.EncodeBool(b)
			}
		} else if f, ok := m.Defaults[varianceKey]; ok {
			if b, err := settings.DecodeBool(f.Default()); err == nil {
				current = settings.EncodeBool(b)
			}
		}
		m.Overrides[varianceKey] = 1 - current
	}
}

// CreateBMR appends a new BMR built from the catalog template at the given
// index.
func (s *Session) CreateBMR(optionIndex int) error {
	if optionIndex < 0 || optionIndex >= len(s.bmrOptions) {
		return fmt.Errorf("BMR option index %d out of range", optionIndex)
	}
	s.bmrs = append(s.bmrs, models.NewBMR(s.bmrOptions[optionIndex]))
	return nil
}

// AddBMR appends a fully specified BMR. The CLI uses this to apply plan
// entries directly.
func (s *Session) AddBMR(b models.BMR) {
	s.bmrs = append(s.bmrs, b)
}

// SelectBMR sets the BMR edit cursor and returns a snapshot of the BMR at
// that index. Selecting a BMR clears any model cursor.
func (s *Session) SelectBMR(index int) (models.BMR, error) {
	if index < 0 || index >= len(s.bmrs) {
		return models.BMR{}, fmt.Errorf("BMR index %d out of range", index)
	}
	s.selectedBMRIndex = &index
	s.selectedModelIndex = nil
	return s.bmrs[index], nil
}

// UpdateBMR writes the BMR at the cursor and clears the cursor.
func (s *Session) UpdateBMR(b models.BMR) error {
	if s.selectedBMRIndex == nil {
		return ErrNoCursor
	}
	s.bmrs[*s.selectedBMRIndex] = b
	s.selectedBMRIndex = nil
	return nil
}

// DeleteBMR removes the BMR at the cursor and clears the cursor.
func (s *Session) DeleteBMR() error {
	if s.selectedBMRIndex == nil {
		return ErrNoCursor
	}
	i := *s.selectedBMRIndex
	s.bmrs = append(s.bmrs[:i], s.bmrs[i+1:]...)
	s.selectedBMRIndex = nil
	return nil
}

// SelectedBMRIndex returns the BMR cursor, if set.
func (s *Session) SelectedBMRIndex() (int, bool) {
	if s.selectedBMRIndex == nil {
		return 0, false
	}
	return *s.selectedBMRIndex, true
}

// ChangeUnits switches the active dose-unit scale. Configured models and
// BMRs are kept as-is; their values are simply interpreted against the new
// scale.
func (s *Session) ChangeUnits(doseUnitsID int) {
	s.doseUnitsID = doseUnitsID
}

// Validate runs the execution gate over the current configuration.
func (s *Session) Validate() []string {
	return validation.Validate(s.bmrs, s.modelSettings)
}

// ValidationErrors returns the errors recorded by the last execution attempt.
func (s *Session) ValidationErrors() []string { return s.validationErrors }

// SetValidationErrors records blocking errors for display.
func (s *Session) SetValidationErrors(errs []string) { s.validationErrors = errs }

// AddValidationError appends one error to the recorded list.
func (s *Session) AddValidationError(msg string) {
	s.validationErrors = append(s.validationErrors, msg)
}

// BeginExecution marks the session as executing and clears prior errors.
func (s *Session) BeginExecution() {
	s.isExecuting = true
	s.validationErrors = nil
}

// EndExecution clears the executing flag. When executed is true the session
// is additionally marked as having completed a run.
func (s *Session) EndExecution(executed bool) {
	s.isExecuting = false
	if executed {
		s.hasExecuted = true
	}
}

// LogicApplied reports whether recommendation evaluation has run against the
// current endpoint and session payload.
func (s *Session) LogicApplied() bool { return s.logicApplied }

// MarkLogicApplied records that recommendation evaluation is complete.
func (s *Session) MarkLogicApplied() { s.logicApplied = true }

// SelectedModel returns the recorded model choice, or nil when none is set.
func (s *Session) SelectedModel() *models.SelectedModel {
	if s.selectedModelID == nil && s.selectedModelNotes == "" {
		return nil
	}
	return &models.SelectedModel{ModelID: s.selectedModelID, Notes: s.selectedModelNotes}
}

// SetSelectedModel records the final model choice locally. Persistence is the
// caller's responsibility; this is only applied after a successful remote
// write.
func (s *Session) SetSelectedModel(modelID *int, notes string) {
	s.selectedModelID = modelID
	s.selectedModelNotes = notes
}
