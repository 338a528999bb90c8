package services

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/cchuang/regent/internal/app/auth"
	"github.com/cchuang/regent/internal/app/models"
	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/app/repositories"
	"github.com/cchuang/regent/internal/pkg/apperrors"
	"github.com/cchuang/regent/internal/pkg/logger"
)

const (
	// SearchResultCap bounds each result category.
	SearchResultCap = 10
	// SuggestionCap bounds the merged autocomplete list.
	SuggestionCap = 10
	// SuggestionCategoryCap bounds each category's share of the merged list.
	SuggestionCategoryCap = 5
	// SuggestionMinQuery is the shortest query that produces suggestions.
	SuggestionMinQuery = 2
)

type studentSearcher interface {
	List(ctx context.Context, visibility squirrel.Sqlizer, opts repositories.StudentListOptions, offset uint64, limit int) ([]models.Student, int64, error)
	Suggest(ctx context.Context, visibility squirrel.Sqlizer, q string, limit int) ([]models.Student, error)
}

type teacherSearcher interface {
	List(ctx context.Context, visibility squirrel.Sqlizer, opts repositories.TeacherListOptions, offset uint64, limit int) ([]models.Teacher, int64, error)
	Suggest(ctx context.Context, visibility squirrel.Sqlizer, q string, limit int) ([]models.Teacher, error)
}

type classSearcher interface {
	List(ctx context.Context, visibility squirrel.Sqlizer, opts repositories.ClassListOptions, offset uint64, limit int) ([]models.Class, int64, error)
}

// SearchService implements the cross-entity search and the autocomplete
// suggestions. Each category runs under the caller's visibility filter, so
// the merged result never contains a row the caller could not reach through
// the entity listings. A failing category degrades to an empty list instead
// of failing the whole search.
type SearchService struct {
	students studentSearcher
	teachers teacherSearcher
	classes  classSearcher
}

// NewSearchService creates a new search service
func NewSearchService(students studentSearcher, teachers teacherSearcher, classes classSearcher) *SearchService {
	return &SearchService{students: students, teachers: teachers, classes: classes}
}

func wantCategory(typ, category string) bool {
	return typ == "" || typ == "all" || typ == category
}

// Search runs the query across students, teachers and classes. typ narrows
// to one category ("student", "teacher", "class"); empty or "all" searches
// everything. A category runs only when the caller's role may list that
// entity at all; otherwise it stays empty, so a requested-but-forbidden
// category is indistinguishable from one with no hits. At most
// SearchResultCap hits per category; Total counts the returned hits.
func (s *SearchService) Search(ctx context.Context, id auth.Identity, query, typ string) (*dto.SearchResponse, error) {
	if !id.IsAuthenticated() {
		return nil, apperrors.ErrAuthRequired
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewFieldError(apperrors.ErrValidationFailed, "q", "search query is required")
	}

	resp := &dto.SearchResponse{
		Students: []dto.StudentHit{},
		Teachers: []dto.TeacherHit{},
		Classes:  []dto.ClassHit{},
	}

	if wantCategory(typ, "student") && auth.CanViewStudentList(id) {
		students, _, err := s.students.List(ctx, auth.StudentFilter(id),
			repositories.StudentListOptions{Search: query}, 0, SearchResultCap)
		if err != nil {
			logger.Warn().Err(err).Str("query", query).Msg("Student search failed")
		} else {
			for i := range students {
				resp.Students = append(resp.Students, studentHit(&students[i]))
			}
		}
	}

	if wantCategory(typ, "teacher") && auth.CanViewTeacherList(id) {
		teachers, _, err := s.teachers.List(ctx, auth.TeacherFilter(id),
			repositories.TeacherListOptions{Search: query}, 0, SearchResultCap)
		if err != nil {
			logger.Warn().Err(err).Str("query", query).Msg("Teacher search failed")
		} else {
			for i := range teachers {
				resp.Teachers = append(resp.Teachers, teacherHit(&teachers[i]))
			}
		}
	}

	if wantCategory(typ, "class") && auth.CanViewClassList(id) {
		classes, _, err := s.classes.List(ctx, auth.ClassFilter(id),
			repositories.ClassListOptions{Search: query}, 0, SearchResultCap)
		if err != nil {
			logger.Warn().Err(err).Str("query", query).Msg("Class search failed")
		} else {
			for i := range classes {
				resp.Classes = append(resp.Classes, classHit(&classes[i]))
			}
		}
	}

	resp.Total = len(resp.Students) + len(resp.Teachers) + len(resp.Classes)
	return resp, nil
}

// Suggestions returns autocomplete entries for students and teachers whose
// name or number matches the query. The same list-permission gates as
// Search apply, each category contributes at most SuggestionCategoryCap
// entries, and the merged list is capped at SuggestionCap with students
// first. Queries shorter than SuggestionMinQuery produce an empty list
// rather than an error.
func (s *SearchService) Suggestions(ctx context.Context, id auth.Identity, query string) ([]dto.Suggestion, error) {
	if !id.IsAuthenticated() {
		return nil, apperrors.ErrAuthRequired
	}

	query = strings.TrimSpace(query)
	suggestions := []dto.Suggestion{}
	if len(query) < SuggestionMinQuery {
		return suggestions, nil
	}

	if auth.CanViewStudentList(id) {
		students, err := s.students.Suggest(ctx, auth.StudentFilter(id), query, SuggestionCategoryCap)
		if err != nil {
			logger.Warn().Err(err).Str("query", query).Msg("Student suggestions failed")
		}
		for _, st := range students {
			if len(suggestions) >= SuggestionCap {
				return suggestions, nil
			}
			suggestions = append(suggestions, dto.Suggestion{
				Type:     "student",
				ID:       st.ID,
				Label:    st.Name + " (" + st.ID + ")",
				Category: "Students",
			})
		}
	}

	if auth.CanViewTeacherList(id) {
		teachers, err := s.teachers.Suggest(ctx, auth.TeacherFilter(id), query, SuggestionCategoryCap)
		if err != nil {
			logger.Warn().Err(err).Str("query", query).Msg("Teacher suggestions failed")
		}
		for _, t := range teachers {
			if len(suggestions) >= SuggestionCap {
				return suggestions, nil
			}
			suggestions = append(suggestions, dto.Suggestion{
				Type:     "teacher",
				ID:       t.ID,
				Label:    t.Name + " (" + t.ID + ")",
				Category: "Teachers",
			})
		}
	}

	return suggestions, nil
}

func studentHit(st *models.Student) dto.StudentHit {
	hit := dto.StudentHit{
		StudentID: st.ID,
		Name:      st.Name,
		Status:    string(st.Status),
	}
	if st.Class != nil {
		hit.ClassName = st.Class.Name
	}
	if st.Email != nil {
		hit.Email = *st.Email
	}
	if st.Phone != nil {
		hit.Phone = *st.Phone
	}
	return hit
}

func teacherHit(t *models.Teacher) dto.TeacherHit {
	hit := dto.TeacherHit{
		TeacherID: t.ID,
		Name:      t.Name,
	}
	if t.Department != nil {
		hit.DepartmentName = t.Department.Name
	}
	if t.Position != nil {
		hit.Position = *t.Position
	}
	if t.Email != nil {
		hit.Email = *t.Email
	}
	if t.Phone != nil {
		hit.Phone = *t.Phone
	}
	return hit
}

func classHit(cl *models.Class) dto.ClassHit {
	hit := dto.ClassHit{
		ClassID:      cl.ID,
		ClassName:    cl.Name,
		Grade:        cl.Grade,
		StudentCount: cl.StudentCount,
	}
	if cl.Department != nil {
		hit.DepartmentName = cl.Department.Name
	}
	if cl.Teacher != nil {
		hit.TeacherName = cl.Teacher.Name
	}
	return hit
}
