package utils

import (
	"os"

	"beam_automation/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var batchJSON = jsoniter.Config{UseNumber: true, EscapeHTML: true}.Froze()

// LoadBatchFromJSON reads a batch request file. Numbers are kept as
// json.Number so large integers survive until an executor parses them.
func LoadBatchFromJSON(filePath string) (entity.BatchRequest, error) {
	var req entity.BatchRequest
	data, err := os.ReadFile(filePath)
	if err != nil {
		return req, err
	}
	if err := batchJSON.Unmarshal(data, &req); err != nil {
		return req, entity.NewInvalidInputError("batch file %s is not valid JSON: %v", filePath, err)
	}
	return req, nil
}
