package handler

import (
	"strings"
	"time"

	"github.com/V4T54L/logviewer/internal/domain"
	"github.com/V4T54L/logviewer/internal/logquery"
)

// filterLogsRequest is the body of POST /api/logs/filter. File names one
// file; Files may name several, read and filtered as one set.
type filterLogsRequest struct {
	Folder        string            `json:"folder"`
	File          string            `json:"file"`
	Files         []string          `json:"files"`
	FilterOptions *filterOptionsDTO `json:"filterOptions"`
}

func (r filterLogsRequest) fileNames() []string {
	var names []string
	if strings.TrimSpace(r.File) != "" {
		names = append(names, r.File)
	}
	for _, f := range r.Files {
		if strings.TrimSpace(f) != "" {
			names = append(names, f)
		}
	}
	return names
}

type filterOptionsDTO struct {
	SearchText         string   `json:"searchText"`
	Levels             []string `json:"levels"`
	ExclusionText      string   `json:"exclusionText"`
	ExcludedLevels     []string `json:"excludedLevels"`
	StartDate          string   `json:"startDate"`
	EndDate            string   `json:"endDate"`
	StartTime          string   `json:"startTime"`
	EndTime            string   `json:"endTime"`
	SortDirection      string   `json:"sortDirection"`
	SortField          *int     `json:"sortField"`
	TableSortDirection *int     `json:"tableSortDirection"`
}

// Wire codes for the column sort. Unknown codes decode to no column sort.
var (
	sortFieldCodes = map[int]domain.SortField{
		0: domain.SortFieldTimestamp,
		1: domain.SortFieldLevel,
		2: domain.SortFieldMessage,
	}
	sortDirectionCodes = map[int]domain.SortDirection{
		0: domain.SortAscending,
		1: domain.SortDescending,
	}
	sortDirectionNames = map[string]domain.SortDirection{
		"Ascending":  domain.SortAscending,
		"Descending": domain.SortDescending,
		"0":          domain.SortAscending,
		"1":          domain.SortDescending,
	}
)

// toDomain converts the wire options. Unknown level names and unparseable
// dates or times are dropped rather than rejected.
func (d *filterOptionsDTO) toDomain(loc *time.Location) (domain.FilterOptions, domain.ColumnSort) {
	opts := domain.NewFilterOptions()
	if d == nil {
		return opts, domain.ColumnSort{}
	}

	opts.SearchText = d.SearchText
	opts.ExclusionText = d.ExclusionText
	opts.Levels = parseLevels(d.Levels)
	opts.ExcludedLevels = parseLevels(d.ExcludedLevels)
	opts.StartDate = logquery.ParseDate(d.StartDate, loc)
	opts.EndDate = logquery.ParseDate(d.EndDate, loc)
	opts.StartTime = logquery.ParseTimeOfDay(d.StartTime)
	opts.EndTime = logquery.ParseTimeOfDay(d.EndTime)

	if dir, ok := sortDirectionNames[strings.TrimSpace(d.SortDirection)]; ok {
		opts.SortDirection = dir
	}

	var cs domain.ColumnSort
	if d.SortField != nil {
		if field, ok := sortFieldCodes[*d.SortField]; ok {
			cs.Field = field
			// An absent direction code is 0.
			code := 0
			if d.TableSortDirection != nil {
				code = *d.TableSortDirection
			}
			if dir, ok := sortDirectionCodes[code]; ok {
				cs.Direction = dir
			} else {
				cs = domain.ColumnSort{}
			}
		}
	}

	return opts, cs
}

func parseLevels(names []string) []domain.Level {
	var levels []domain.Level
	for _, n := range names {
		if l, ok := domain.ParseLevel(n); ok {
			levels = append(levels, l)
		}
	}
	return levels
}

// logRow is one entry as sent to the UI.
type logRow struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Position  int    `json:"position"`
	File      string `json:"file,omitempty"`
}

type filterLogsResponse struct {
	Success        bool     `json:"success"`
	Logs           []logRow `json:"logs"`
	TotalCount     int      `json:"totalCount"`
	DisplayedCount int      `json:"displayedCount"`
	SnapshotID     string   `json:"snapshotId,omitempty"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toRows(entries []domain.LogEntry, withFile bool) []logRow {
	rows := make([]logRow, len(entries))
	for i, e := range entries {
		rows[i] = logRow{
			Timestamp: e.Timestamp.Format("2006-01-02 15:04:05"),
			Level:     e.Level.String(),
			Message:   e.Message,
			Date:      e.Timestamp.Format("2006-01-02"),
			Time:      e.Timestamp.Format("15:04:05"),
			Position:  i,
		}
		if withFile {
			rows[i].File = e.SourceFile
		}
	}
	return rows
}

// snapshotFilterRequest is the body of POST /api/snapshots/{id}/filter.
type snapshotFilterRequest struct {
	FilterOptions *filterOptionsDTO `json:"filterOptions"`
}

type createSnapshotResponse struct {
	Success    bool      `json:"success"`
	SnapshotID string    `json:"snapshotId"`
	Folder     string    `json:"folder"`
	Files      []string  `json:"files"`
	TotalCount int       `json:"totalCount"`
	CreatedAt  time.Time `json:"createdAt"`
}
