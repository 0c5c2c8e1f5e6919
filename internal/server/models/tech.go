// Package models defines the records the portfolio server stores and serves.
package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

// Document field names shared by the models and the query builder.
const (
	FieldID             = "_id"
	FieldKind           = "kind"
	FieldTechnologies   = "technologies"
	FieldTechExperience = "techExperience"
	FieldSkillLevel     = "skillLevel"
	FieldImage          = "image"
	FieldProject        = "project"
	FieldDescription    = "description"
	FieldGithubURL      = "githubUrl"
	FieldDetails        = "details"
	FieldOrder          = "order"
	FieldStageType      = "stageType"
)

// Kind tells which view a TechEntry belongs to.
type Kind string

const (
	KindTech    Kind = "tech"
	KindProject Kind = "project"
	// KindUnclassified entries have a project but miss a description or
	// technologies. They are reachable by id only.
	KindUnclassified Kind = ""
)

// TechEntry is one record of the shared tech collection. A plain entry
// describes a technology; when project, description and technologies are
// all set it describes a project built with it.
type TechEntry struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind           Kind               `bson:"kind,omitempty" json:"kind,omitempty"`
	Technologies   string             `bson:"technologies" json:"technologies"`
	TechExperience string             `bson:"techExperience" json:"techExperience"`
	SkillLevel     float64            `bson:"skillLevel" json:"skillLevel"`
	Image          string             `bson:"image,omitempty" json:"image,omitempty"`
	Project        string             `bson:"project,omitempty" json:"project,omitempty"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	GithubURL      string             `bson:"githubUrl,omitempty" json:"githubUrl,omitempty"`
}

// Classify derives the entry kind from its populated fields using the same
// rules as the tech and project listings.
func (e *TechEntry) Classify() Kind {
	switch {
	case e.Project == "":
		return KindTech
	case e.Description != "" && e.Technologies != "":
		return KindProject
	default:
		return KindUnclassified
	}
}

// Validate checks the fields every entry must carry.
func (e *TechEntry) Validate() error {
	var missing []string
	if strings.TrimSpace(e.Technologies) == "" {
		missing = append(missing, FieldTechnologies)
	}
	if strings.TrimSpace(e.TechExperience) == "" {
		missing = append(missing, FieldTechExperience)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", common.ErrorValidation, strings.Join(missing, ", "))
	}
	return nil
}
