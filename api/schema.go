package api

import (
	"fmt"
	"sort"
	"strings"

	"github.com/allkit/docapi/pdf"
	jsoniter "github.com/json-iterator/go"
	"github.com/kaptinlin/jsonschema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// pageOrderSchema a non blank entry must name a file and a page
const pageOrderSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"fileName": {"type": ["string", "null"]},
			"pageNumber": {"type": ["integer", "null"]},
			"isBlank": {"type": ["boolean", "null"]}
		},
		"if": {"properties": {"isBlank": {"const": true}}, "required": ["isBlank"]},
		"else": {
			"properties": {"fileName": {"type": "string"}, "pageNumber": {"type": "integer"}},
			"required": ["fileName", "pageNumber"]
		}
	}
}`

var pageOrderValidator = mustCompile(pageOrderSchema)

func mustCompile(source string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(source))
	if err != nil {
		panic(fmt.Sprintf("invalid JSON Schema: %s", err.Error()))
	}
	return schema
}

// parsePageOrder decodes and validates the pageOrder form field
func parsePageOrder(raw string) ([]pdf.PageOrderEntry, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, invalid("Field pageOrder is required")
	}

	var data interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, invalid("Invalid pageOrder JSON: %s", err.Error())
	}

	result := pageOrderValidator.Validate(data)
	if !result.IsValid() {
		messages := []string{}
		for field, err := range result.Errors {
			messages = append(messages, fmt.Sprintf("%s: %s", field, err.Message))
		}
		sort.Strings(messages)
		return nil, invalid("Invalid pageOrder: %s", strings.Join(messages, "; "))
	}

	order := []pdf.PageOrderEntry{}
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return nil, invalid("Invalid pageOrder: %s", err.Error())
	}
	return order, nil
}
