package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/pkg/models"
)

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Added          int
	Skipped        int
	Errors         []string
}

// Importer loads word/translation pairs from a spreadsheet into one
// user's vocabulary, creating the review schedule for every new pair.
type Importer struct {
	words *database.WordRepository
}

// NewImporter creates an importer over the word repository.
func NewImporter(words *database.WordRepository) *Importer {
	return &Importer{words: words}
}

// ImportFile imports pairs from an .xlsx or .csv file: column A is the
// English word, column B the Russian translation. Duplicates are counted
// as skipped; hitting the daily word cap stops the import.
func (im *Importer) ImportFile(path string, user *models.User) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".csv" {
		return im.importFromCSV(path, user)
	}
	return im.importFromExcel(path, user)
}

func (im *Importer) importFromExcel(path string, user *models.User) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		if stop := im.processRow(row, user, result, i+1); stop {
			break
		}
	}
	return result, nil
}

func (im *Importer) importFromCSV(path string, user *models.User) (*ImportResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %v", err)
		}
		rowNum++
		if stop := im.processRow(row, user, result, rowNum); stop {
			break
		}
	}
	return result, nil
}

// processRow imports one pair. Returns true when the import must stop.
func (im *Importer) processRow(row []string, user *models.User, result *ImportResult, rowNum int) bool {
	if len(row) < 2 {
		return false
	}
	wordEn := strings.TrimSpace(row[0])
	translationRu := strings.TrimSpace(row[1])
	if wordEn == "" || translationRu == "" {
		return false
	}
	result.TotalProcessed++

	_, _, err := im.words.AddWordForUser(user, wordEn, translationRu, time.Now())
	if err != nil {
		if errors.Is(err, database.ErrDuplicateWord) {
			result.Skipped++
			return false
		}
		var limitErr *database.DailyWordLimitError
		if errors.As(err, &limitErr) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: daily limit of %d reached, import stopped", rowNum, limitErr.Limit))
			return true
		}
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d (%s): %v", rowNum, wordEn, err))
		return false
	}
	result.Added++
	return false
}
