// Package loader reads the keywords CSV driving a run: one row per
// query with a job title, a location, and an optional monthly search
// volume. Validation happens here so the scoring core only ever sees
// well-formed queries.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"sovtrack-engine/internal/domain"
)

func ReadKeywordsCSV(path string) ([]domain.Query, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keywords file: %w", err)
	}
	defer file.Close()

	return parseKeywords(file)
}

func parseKeywords(r io.Reader) ([]domain.Query, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("keywords file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := map[string]int{}
	for i, name := range header {
		col[normalizeHeader(name)] = i
	}
	titleIdx, ok := col["job_title"]
	if !ok {
		return nil, fmt.Errorf("keywords file has no job_title column")
	}
	locIdx, ok := col["location"]
	if !ok {
		return nil, fmt.Errorf("keywords file has no location column")
	}
	volIdx, hasVol := col["search_volume"]

	var queries []domain.Query
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		q := domain.Query{}
		if titleIdx < len(record) {
			q.JobTitle = strings.TrimSpace(record[titleIdx])
		}
		if locIdx < len(record) {
			q.Location = strings.TrimSpace(record[locIdx])
		}
		if q.JobTitle == "" || q.Location == "" {
			return nil, fmt.Errorf("line %d: job_title and location are required", line)
		}

		if hasVol && volIdx < len(record) {
			raw := strings.TrimSpace(record[volIdx])
			if raw != "" {
				vol, err := strconv.Atoi(raw)
				if err != nil || vol < 0 {
					return nil, fmt.Errorf("line %d: search_volume %q is not a non-negative integer", line, raw)
				}
				q.SearchVolume = vol
			}
		}

		queries = append(queries, q)
	}

	return queries, nil
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
