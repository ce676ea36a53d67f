package handler

import (
	"testing"
	"time"

	"github.com/V4T54L/logviewer/internal/domain"
)

func intPtr(i int) *int { return &i }

func TestFilterOptionsDTO_ColumnSortCodes(t *testing.T) {
	tests := []struct {
		name      string
		field     *int
		direction *int
		want      domain.ColumnSort
	}{
		{"absent field", nil, intPtr(1), domain.ColumnSort{}},
		{"timestamp asc", intPtr(0), intPtr(0), domain.ColumnSort{Field: domain.SortFieldTimestamp, Direction: domain.SortAscending}},
		{"level desc", intPtr(1), intPtr(1), domain.ColumnSort{Field: domain.SortFieldLevel, Direction: domain.SortDescending}},
		{"message no direction", intPtr(2), nil, domain.ColumnSort{Field: domain.SortFieldMessage, Direction: domain.SortAscending}},
		{"unknown field", intPtr(7), intPtr(0), domain.ColumnSort{}},
		{"unknown direction", intPtr(0), intPtr(9), domain.ColumnSort{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := &filterOptionsDTO{SortField: tt.field, TableSortDirection: tt.direction}
			_, cs := dto.toDomain(time.UTC)
			if cs != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, cs)
			}
		})
	}
}

func TestFilterOptionsDTO_Defaults(t *testing.T) {
	var dto *filterOptionsDTO
	opts, cs := dto.toDomain(time.UTC)
	if opts.SortDirection != domain.SortDescending {
		t.Errorf("expected descending default, got %v", opts.SortDirection)
	}
	if cs.Field != domain.SortFieldNone {
		t.Errorf("expected no column sort, got %+v", cs)
	}

	opts, _ = (&filterOptionsDTO{SortDirection: "sideways", StartDate: "not a date", StartTime: "25:99"}).toDomain(time.UTC)
	if opts.SortDirection != domain.SortDescending {
		t.Errorf("unknown direction should keep the default, got %v", opts.SortDirection)
	}
	if opts.StartDate != nil || opts.StartTime != nil {
		t.Errorf("unparseable date/time should be dropped, got %v %v", opts.StartDate, opts.StartTime)
	}

	opts, _ = (&filterOptionsDTO{SortDirection: "0"}).toDomain(time.UTC)
	if opts.SortDirection != domain.SortAscending {
		t.Errorf("expected \"0\" to mean ascending, got %v", opts.SortDirection)
	}
}
