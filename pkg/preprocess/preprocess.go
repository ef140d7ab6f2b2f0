// Package preprocess turns a train/test CSV pair into model-ready feature
// matrices and target vectors, and persists the fitted column transform so
// the same preprocessing can be applied to new data later.
package preprocess

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/Latif-Arib/ML-Project/pkg/config"
	"github.com/Latif-Arib/ML-Project/pkg/dataset"
	"github.com/Latif-Arib/ML-Project/pkg/logger"
	"github.com/Latif-Arib/ML-Project/pkg/models"
	"github.com/Latif-Arib/ML-Project/pkg/transform"
)

// Logger is the logging the preprocessor needs; *logger.Logger satisfies it
type Logger interface {
	Info(msg string, fields ...logger.Field)
	Error(msg string, err error, fields ...logger.Field)
}

// ArtifactRecorder stores a record of every run
type ArtifactRecorder interface {
	SaveArtifact(artifact *models.TransformArtifact) error
}

// Options are the explicit settings of a Preprocessor
type Options struct {
	TargetColumn  string
	ArtifactPath  string
	HandleUnknown transform.UnknownPolicy
	Compress      bool
}

// OptionsFromConfig extracts the preprocessing settings from cfg
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TargetColumn:  cfg.TargetColumn,
		ArtifactPath:  cfg.ProcessedDataPath,
		HandleUnknown: transform.UnknownPolicy(cfg.HandleUnknown),
		Compress:      cfg.CompressArtifact,
	}
}

// Preprocessor fits the column transform on a training file and applies it.
// It is not safe for concurrent use: runs sharing an artifact path overwrite
// each other.
type Preprocessor struct {
	opts     Options
	log      Logger
	recorder ArtifactRecorder
	now      func() time.Time
}

// New creates a Preprocessor from configuration. A nil log discards output.
func New(cfg *config.Config, log Logger) (*Preprocessor, error) {
	return NewWithOptions(OptionsFromConfig(cfg), log)
}

// NewWithOptions creates a Preprocessor from explicit options
func NewWithOptions(opts Options, log Logger) (*Preprocessor, error) {
	if opts.TargetColumn == "" {
		return nil, fmt.Errorf("target column is required")
	}
	if opts.ArtifactPath == "" {
		return nil, fmt.Errorf("artifact path is required")
	}
	policy, err := transform.ParseUnknownPolicy(string(opts.HandleUnknown))
	if err != nil {
		return nil, err
	}
	opts.HandleUnknown = policy

	if log == nil {
		log = logger.Discard()
	}
	return &Preprocessor{
		opts: opts,
		log:  log,
		now:  time.Now,
	}, nil
}

// WithRecorder sets where run records are stored
func (p *Preprocessor) WithRecorder(r ArtifactRecorder) *Preprocessor {
	p.recorder = r
	return p
}

// Options returns the settings in use
func (p *Preprocessor) Options() Options {
	return p.opts
}

// Result holds the outputs of a run
type Result struct {
	TrainFeatures *mat.Dense
	TestFeatures  *mat.Dense
	TrainTargets  []float64
	TestTargets   []float64

	FeatureNames []string
	Schema       *dataset.Schema
	ArtifactPath string
	RunID        string
}

// Outputs returns the train features, test features, train targets and test
// targets, in that order
func (r *Result) Outputs() (*mat.Dense, *mat.Dense, []float64, []float64) {
	return r.TrainFeatures, r.TestFeatures, r.TrainTargets, r.TestTargets
}

// TrainingData converts the result into the bundle a trainer consumes
func (r *Result) TrainingData() *models.TrainingData {
	return &models.TrainingData{
		TrainFeatures: rows(r.TrainFeatures),
		TrainLabels:   r.TrainTargets,
		TestFeatures:  rows(r.TestFeatures),
		TestLabels:    r.TestTargets,
		FeatureNames:  r.FeatureNames,
		Metadata: map[string]interface{}{
			"run_id":               r.RunID,
			"artifact_path":        r.ArtifactPath,
			"target_column":        r.Schema.Target,
			"numeric_features":     r.Schema.Numeric,
			"categorical_features": r.Schema.Categorical,
		},
	}
}

// Transform loads both files, fits the column transform on train only,
// applies it to train and test and writes the fitted transform to the
// artifact path. Every failure is returned as a *PreprocessingError.
func (p *Preprocessor) Transform(trainPath, testPath string) (*Result, error) {
	runID := uuid.New().String()
	res, schema, err := p.run(trainPath, testPath)
	if res != nil {
		res.RunID = runID
	}
	p.record(runID, trainPath, testPath, res, schema, err)

	if err != nil {
		p.log.Error("Preprocessing failed", err,
			logger.String("run_id", runID),
			logger.String("train", trainPath),
			logger.String("test", testPath))
		return nil, err
	}
	return res, nil
}

func (p *Preprocessor) run(trainPath, testPath string) (*Result, *dataset.Schema, error) {
	target := p.opts.TargetColumn

	train, err := dataset.Load(trainPath)
	if err != nil {
		return nil, nil, fail(StageLoad, err)
	}
	schema, err := dataset.InferSchema(train, target)
	if err != nil {
		return nil, nil, fail(StageSchema, err)
	}
	// test takes the train column kinds, never its own
	test, err := dataset.LoadWithSchema(testPath, schema)
	if err != nil {
		return nil, schema, fail(StageLoad, err)
	}
	p.log.Info("Read train and test data completed",
		logger.Int("train_rows", train.Nrow()),
		logger.Int("test_rows", test.Nrow()))

	trainY, err := train.Target(target)
	if err != nil {
		return nil, schema, fail(StageTarget, err)
	}
	testY, err := test.Target(target)
	if err != nil {
		return nil, schema, fail(StageTarget, err)
	}
	trainX, err := train.Drop(target)
	if err != nil {
		return nil, schema, fail(StageTarget, err)
	}
	testX, err := test.Drop(target)
	if err != nil {
		return nil, schema, fail(StageTarget, err)
	}

	ct, err := transform.NewColumnTransformer(schema.Numeric, schema.Categorical, transform.Options{
		HandleUnknown: p.opts.HandleUnknown,
	})
	if err != nil {
		return nil, schema, fail(StageFit, err)
	}
	if err := ct.Fit(trainX); err != nil {
		return nil, schema, fail(StageFit, err)
	}

	xTrain, err := ct.Transform(trainX)
	if err != nil {
		return nil, schema, fail(StageApply, err)
	}
	xTest, err := ct.Transform(testX)
	if err != nil {
		return nil, schema, fail(StageApply, err)
	}
	p.log.Info("Applying preprocessing object on training and testing dataframe",
		logger.Int("features", ct.NumFeatures()),
		logger.Strings("numeric", schema.Numeric),
		logger.Strings("categorical", schema.Categorical))

	if err := transform.Save(p.opts.ArtifactPath, ct, transform.SaveOptions{Compress: p.opts.Compress}); err != nil {
		return nil, schema, fail(StagePersist, err)
	}

	return &Result{
		TrainFeatures: xTrain,
		TestFeatures:  xTest,
		TrainTargets:  trainY,
		TestTargets:   testY,
		FeatureNames:  ct.FeatureNames(),
		Schema:        schema,
		ArtifactPath:  p.opts.ArtifactPath,
	}, schema, nil
}

// Batch is a table transformed with a previously persisted transform
type Batch struct {
	Features     *mat.Dense
	Targets      []float64 // nil when the target column is absent
	FeatureNames []string
}

// Apply loads the persisted transform and applies it to a new file without
// refitting. Targets are extracted when the file carries the target column.
func (p *Preprocessor) Apply(dataPath string) (*Batch, error) {
	ct, err := transform.Load(p.opts.ArtifactPath)
	if err != nil {
		return nil, p.applyFailed(dataPath, fail(StageRestore, err))
	}
	data, err := dataset.LoadWithSchema(dataPath, &dataset.Schema{
		Target:      p.opts.TargetColumn,
		Numeric:     ct.NumericColumns,
		Categorical: ct.CategoricalColumns,
	})
	if err != nil {
		return nil, p.applyFailed(dataPath, fail(StageLoad, err))
	}

	batch := &Batch{FeatureNames: ct.FeatureNames()}
	if data.Has(p.opts.TargetColumn) {
		if batch.Targets, err = data.Target(p.opts.TargetColumn); err != nil {
			return nil, p.applyFailed(dataPath, fail(StageTarget, err))
		}
		if data, err = data.Drop(p.opts.TargetColumn); err != nil {
			return nil, p.applyFailed(dataPath, fail(StageTarget, err))
		}
	}

	if batch.Features, err = ct.Transform(data); err != nil {
		return nil, p.applyFailed(dataPath, fail(StageApply, err))
	}
	p.log.Info("Applied persisted preprocessing object",
		logger.String("data", dataPath),
		logger.Int("rows", data.Nrow()),
		logger.Int("features", ct.NumFeatures()))
	return batch, nil
}

func (p *Preprocessor) applyFailed(dataPath string, err error) error {
	p.log.Error("Applying preprocessing object failed", err, logger.String("data", dataPath))
	return err
}

func (p *Preprocessor) record(runID, trainPath, testPath string, res *Result, schema *dataset.Schema, runErr error) {
	if p.recorder == nil {
		return
	}

	artifact := &models.TransformArtifact{
		ID:           runID,
		Path:         p.opts.ArtifactPath,
		TargetColumn: p.opts.TargetColumn,
		TrainSource:  trainPath,
		TestSource:   testPath,
		Compressed:   p.opts.Compress,
		Status:       models.ArtifactStatusSucceeded,
		CreatedAt:    p.now().UTC(),
	}
	if schema != nil {
		artifact.NumericFeatures = schema.Numeric
		artifact.CategoricalFeatures = schema.Categorical
	}
	if res != nil {
		artifact.FeatureNames = res.FeatureNames
		artifact.TrainRows = len(res.TrainTargets)
		artifact.TestRows = len(res.TestTargets)
	}
	if runErr != nil {
		artifact.Status = models.ArtifactStatusFailed
		artifact.Error = runErr.Error()
	}

	if err := p.recorder.SaveArtifact(artifact); err != nil {
		p.log.Error("Failed to record transform artifact", err, logger.String("run_id", runID))
	}
}

func rows(m *mat.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}
