package query

import "github.com/dmitrijs2005/portfolio/internal/server/models"

// IsTechOnly selects plain technology entries: no project set.
func IsTechOnly() Filter {
	return Missing(models.FieldProject)
}

// IsProject selects project entries. Entries with a project but a missing
// description or technologies match neither this nor IsTechOnly.
func IsProject() Filter {
	return And(
		NonEmpty(models.FieldProject),
		NonEmpty(models.FieldDescription),
		NonEmpty(models.FieldTechnologies),
	)
}

// IsCompleteStage hides draft pipeline stages.
func IsCompleteStage() Filter {
	return And(
		NonEmpty(models.FieldProject),
		NonEmpty(models.FieldDescription),
		NonEmpty(models.FieldStageType),
	)
}

// StageOrder sorts stages by display order. Equal orders fall back to _id,
// and ObjectIDs grow with creation time, so ties keep insertion order.
func StageOrder() []SortKey {
	return []SortKey{
		{Field: models.FieldOrder},
		{Field: models.FieldID},
	}
}

// CompleteStagesInOrder is the pipeline listing query.
func CompleteStagesInOrder() Query {
	return Where(IsCompleteStage()).OrderBy(StageOrder()...)
}
