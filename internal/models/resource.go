package models

// ResourceType is the kind of content a resource offers
type ResourceType string

const (
	ResourceTypeExercise ResourceType = "exercise"
	ResourceTypeArticle  ResourceType = "article"
	ResourceTypeAudio    ResourceType = "audio"
	ResourceTypeVideo    ResourceType = "video"
)

// ResourceTypes lists every known type in display order
var ResourceTypes = []ResourceType{
	ResourceTypeExercise,
	ResourceTypeArticle,
	ResourceTypeAudio,
	ResourceTypeVideo,
}

// IsValid returns true for a known resource type
func (t ResourceType) IsValid() bool {
	for _, known := range ResourceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ResourceCategory is the difficulty level of a resource
type ResourceCategory string

const (
	ResourceCategoryBeginner     ResourceCategory = "Beginner"
	ResourceCategoryIntermediate ResourceCategory = "Intermediate"
	ResourceCategoryAdvanced     ResourceCategory = "Advanced"
)

// Resource is an entry in the wellness resource library
type Resource struct {
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Type        ResourceType     `yaml:"type"`
	Duration    string           `yaml:"duration"`
	Category    ResourceCategory `yaml:"category"`
	Icon        string           `yaml:"icon"`
}
