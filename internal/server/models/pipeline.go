package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PipelineStage is one step of a project's delivery pipeline. Stages missing
// a project, description or stage type are drafts and stay out of listings.
type PipelineStage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Project     string             `bson:"project" json:"project"`
	Description string             `bson:"description" json:"description"`
	Details     string             `bson:"details,omitempty" json:"details,omitempty"`
	Order       int                `bson:"order" json:"order"`
	StageType   string             `bson:"stageType" json:"stageType"`
}

// Complete reports whether the stage is visible to read queries.
func (s *PipelineStage) Complete() bool {
	return s.Project != "" && s.Description != "" && s.StageType != ""
}
