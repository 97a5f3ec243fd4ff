package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JustLearn2025/JustLearnBot/internal/database"
	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// ImportConfig defines the question import configuration
type ImportConfig struct {
	FilePath          string   // Path to the Excel or CSV file
	TopicColumn       string   // Column with the topic
	DifficultyColumn  string   // Column with the difficulty
	PromptColumn      string   // Column with the question text
	ChoiceColumns     []string // Columns with the choice texts, labeled A, B, C, ... in order
	CorrectColumn     string   // Column with the correct choice label
	ExplanationColumn string   // Column with the explanation
	SheetName         string   // Name of the sheet to import
	StartRow          int      // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TopicColumn:       "A",
		DifficultyColumn:  "B",
		PromptColumn:      "C",
		ChoiceColumns:     []string{"D", "E", "F", "G"},
		CorrectColumn:     "H",
		ExplanationColumn: "I",
		SheetName:         "Sheet1",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportQuestions imports questions from an Excel or CSV file into the bank
func ImportQuestions(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return importFromCSV(config)
	}

	return importFromExcel(config)
}

// importFromExcel imports questions from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{
		Errors: make([]string, 0),
	}
	questionRepo := database.NewQuestionRepository()

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		if err := processRow(row, config, questionRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports questions from a CSV file with the same column layout
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{
		Errors: make([]string, 0),
	}
	questionRepo := database.NewQuestionRepository()

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		if err := processRow(row, config, questionRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// processRow converts a single row into a question and stores it
func processRow(row []string, config ImportConfig, questionRepo *database.QuestionRepository, result *ImportResult) error {
	topic := cellValue(row, config.TopicColumn)
	difficultyRaw := cellValue(row, config.DifficultyColumn)
	prompt := cellValue(row, config.PromptColumn)
	correct := strings.ToUpper(cellValue(row, config.CorrectColumn))
	explanation := cellValue(row, config.ExplanationColumn)

	if topic == "" || prompt == "" {
		result.Skipped++
		return nil
	}

	difficulty, err := models.ParseDifficulty(difficultyRaw)
	if err != nil {
		return err
	}

	choices := make(models.ChoiceMap)
	for i, column := range config.ChoiceColumns {
		text := cellValue(row, column)
		if text == "" {
			continue
		}
		label := string(rune('A' + i))
		choices[label] = text
	}

	if len(choices) < 2 {
		return fmt.Errorf("question needs at least two choices")
	}
	if _, ok := choices[correct]; !ok {
		return fmt.Errorf("correct choice %q is not among the choices", correct)
	}

	question := &models.Question{
		Topic:         topic,
		Difficulty:    difficulty,
		Prompt:        prompt,
		Choices:       choices,
		CorrectChoice: correct,
		Explanation:   explanation,
	}

	if err := questionRepo.Create(question); err != nil {
		return err
	}
	result.Created++
	return nil
}

// cellValue returns the trimmed cell at the given column letter, or ""
func cellValue(row []string, column string) string {
	idx := columnToIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// columnToIndex converts a column letter (A, B, ..., Z, AA, ...) to a
// 0-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}

	index := 0
	for _, c := range column {
		if c < 'A' || c > 'Z' {
			return -1
		}
		index = index*26 + int(c-'A') + 1
	}
	return index - 1
}
