package models

import (
	"fmt"
	"strings"
)

// CourseLevel enumerates the offered course tracks.
type CourseLevel string

// Course levels offered on the registration calendar.
const (
	CourseLevel1         CourseLevel = "Level 1"
	CourseLevel2         CourseLevel = "Level 2"
	CourseLevel3         CourseLevel = "Level 3"
	CourseLevel3Workshop CourseLevel = "Level 3 Advanced Workshop"
)

// CourseLevels lists every level in display order.
var CourseLevels = []CourseLevel{CourseLevel1, CourseLevel2, CourseLevel3, CourseLevel3Workshop}

var levelSlugs = map[CourseLevel]string{
	CourseLevel1:         "level-1",
	CourseLevel2:         "level-2",
	CourseLevel3:         "level-3",
	CourseLevel3Workshop: "level-3-workshop",
}

// Valid reports whether the level is one of the known course levels.
func (l CourseLevel) Valid() bool {
	_, ok := levelSlugs[l]
	return ok
}

// Slug returns the URL-safe identifier of the level.
func (l CourseLevel) Slug() string {
	return levelSlugs[l]
}

// DisplayName is the short label shown on calendar cells.
func (l CourseLevel) DisplayName() string {
	if l == CourseLevel3Workshop {
		return "Level 3 Workshop"
	}
	return string(l)
}

// ParseCourseLevel accepts either the level name or its slug.
func ParseCourseLevel(raw string) (CourseLevel, error) {
	raw = strings.TrimSpace(raw)
	for level, slug := range levelSlugs {
		if strings.EqualFold(raw, string(level)) || strings.EqualFold(raw, slug) {
			return level, nil
		}
	}
	return "", fmt.Errorf("unknown course level %q", raw)
}
