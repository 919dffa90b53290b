package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/walidBc-blip/finance-dashboard/src/logger"
	"github.com/walidBc-blip/finance-dashboard/src/ml"
	"github.com/walidBc-blip/finance-dashboard/src/models"
)

// classifierModelRowID pins the persisted model to a single row; saving a new
// model always overwrites the previous one.
const classifierModelRowID = 1

type categorizerServiceImpl struct {
	db         *sql.DB
	classifier *ml.Classifier
}

func NewCategorizerService(db *sql.DB, minSamples int) CategorizerService {
	return &categorizerServiceImpl{
		db:         db,
		classifier: ml.NewClassifier(minSamples),
	}
}

// Train refits the shared model on every labeled transaction and persists the
// result. A corpus below the minimum returns ErrInsufficientTrainingData and
// leaves the current model (in memory and on disk) untouched.
func (s *categorizerServiceImpl) Train() (int, error) {
	rows, err := models.ListTrainingSamples(s.db)
	if err != nil {
		return 0, fmt.Errorf("loading training corpus: %w", err)
	}

	samples := make([]ml.Sample, len(rows))
	for i, row := range rows {
		samples[i] = ml.Sample{Description: row.Description, Category: row.Category}
	}

	if err := s.classifier.Train(samples); err != nil {
		if errors.Is(err, ml.ErrInsufficientData) {
			return len(samples), fmt.Errorf("%w: have %d labeled transactions", ErrInsufficientTrainingData, len(samples))
		}
		return len(samples), fmt.Errorf("training categorizer: %w", err)
	}

	if err := s.persistModel(len(samples)); err != nil {
		// The in-memory model is live; losing persistence only costs a
		// retrain on next restart.
		logger.L.Error("Failed to persist categorizer model", "error", err)
	}

	logger.L.Info("Categorizer trained", "samples", len(samples))
	return len(samples), nil
}

func (s *categorizerServiceImpl) PredictCategory(description string) string {
	return s.classifier.Predict(description)
}

func (s *categorizerServiceImpl) IsTrained() bool {
	return s.classifier.IsTrained()
}

// LoadPersistedModel restores the last saved model. An absent row is not an
// error; the service simply starts untrained.
func (s *categorizerServiceImpl) LoadPersistedModel() error {
	var blob []byte
	err := s.db.QueryRow(`SELECT model_blob FROM classifier_models WHERE id = ?`, classifierModelRowID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		logger.L.Info("No persisted categorizer model found, starting untrained")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading persisted categorizer model: %w", err)
	}

	if err := s.classifier.DecodeModel(blob); err != nil {
		return fmt.Errorf("restoring categorizer model: %w", err)
	}
	logger.L.Info("Restored categorizer model", "samples", s.classifier.SampleSize())
	return nil
}

func (s *categorizerServiceImpl) persistModel(sampleCount int) error {
	blob, err := s.classifier.EncodeModel()
	if err != nil {
		return err
	}
	if blob == nil {
		return nil
	}

	_, err = s.db.Exec(`
		INSERT INTO classifier_models (id, model_blob, sample_count, trained_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			model_blob = excluded.model_blob,
			sample_count = excluded.sample_count,
			trained_at = excluded.trained_at`,
		classifierModelRowID, blob, sampleCount, time.Now(),
	)
	return err
}
