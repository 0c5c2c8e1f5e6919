package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

func TestTechEntry_Classify(t *testing.T) {
	tests := []struct {
		name  string
		entry TechEntry
		want  Kind
	}{
		{name: "plain tech", entry: TechEntry{Technologies: "Go", TechExperience: "3 years"}, want: KindTech},
		{name: "project", entry: TechEntry{Technologies: "Go", Project: "Alpha", Description: "CLI"}, want: KindProject},
		{name: "project without description", entry: TechEntry{Technologies: "Go", Project: "Alpha"}, want: KindUnclassified},
		{name: "project without technologies", entry: TechEntry{Project: "Alpha", Description: "CLI"}, want: KindUnclassified},
		{name: "description alone stays tech", entry: TechEntry{Technologies: "Go", Description: "lang"}, want: KindTech},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Classify())
		})
	}
}

func TestTechEntry_Validate(t *testing.T) {
	ok := TechEntry{Technologies: "Go", TechExperience: "3 years"}
	require.NoError(t, ok.Validate())

	err := (&TechEntry{Technologies: " "}).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorValidation))
	assert.Contains(t, err.Error(), FieldTechnologies)
	assert.Contains(t, err.Error(), FieldTechExperience)
}

func TestPipelineStage_Complete(t *testing.T) {
	assert.True(t, (&PipelineStage{Project: "Alpha", Description: "Design phase", StageType: "design"}).Complete())
	assert.False(t, (&PipelineStage{Project: "Alpha", StageType: "build"}).Complete())
	assert.False(t, (&PipelineStage{Project: "Alpha", Description: "x"}).Complete())
}

func TestIdentity_HasRole(t *testing.T) {
	id := Identity{Roles: []string{"Editor", common.RoleAdmin}}
	assert.True(t, id.HasRole(common.RoleAdmin))
	assert.False(t, id.HasRole("Owner"))
}
