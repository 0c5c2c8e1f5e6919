package admin

import (
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

// stageRecord is one stage of an import file. The id is optional; stages
// without one get a fresh id on insert.
type stageRecord struct {
	ID          string `yaml:"id"`
	Project     string `yaml:"project"`
	Description string `yaml:"description"`
	Details     string `yaml:"details"`
	Order       int    `yaml:"order"`
	StageType   string `yaml:"stageType"`
}

type stageFile struct {
	Stages []stageRecord `yaml:"stages"`
}

// ReadStages parses an import file. JSON is accepted too since it is valid
// YAML. The document is either a list of stages or a mapping with a
// "stages" list.
func ReadStages(r io.Reader) ([]models.PipelineStage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var records []stageRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		var f stageFile
		if ferr := yaml.Unmarshal(data, &f); ferr != nil {
			return nil, fmt.Errorf("parse stages: %w", errors.Join(err, ferr))
		}
		records = f.Stages
	}
	if len(records) == 0 {
		return nil, errors.New("no stages in file")
	}

	out := make([]models.PipelineStage, len(records))
	for i, rec := range records {
		s := models.PipelineStage{
			Project:     rec.Project,
			Description: rec.Description,
			Details:     rec.Details,
			Order:       rec.Order,
			StageType:   rec.StageType,
		}
		if rec.ID != "" {
			id, err := primitive.ObjectIDFromHex(rec.ID)
			if err != nil {
				return nil, fmt.Errorf("stage %d: invalid id %q", i, rec.ID)
			}
			s.ID = id
		}
		out[i] = s
	}
	return out, nil
}
