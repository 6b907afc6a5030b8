package api

import (
	"github.com/JaimeStill/beacon/internal/aids"
	"github.com/JaimeStill/beacon/internal/config"
	"github.com/JaimeStill/beacon/internal/extractions"
	"github.com/JaimeStill/beacon/pkg/openapi"
)

func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.AddServer(cfg.API.BasePath)
	cfg.API.OpenAPI.Apply(spec)

	spec.Components.AddSchemas(schemas())
	spec.Components.AddSchemas(map[string]*openapi.Schema{"Record": aids.RecordSchema()})

	spec.AddPaths(documentPaths())
	spec.AddPaths(aidPaths())
	spec.AddPaths(extractionPaths())
	spec.AddPaths(storagePaths())

	return spec
}

func schemas() map[string]*openapi.Schema {
	uuidList := &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}}
	buckets := &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Bucket")}

	return map[string]*openapi.Schema{
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"filename":     {Type: "string"},
				"local_path":   {Type: "string"},
				"content_type": {Type: "string"},
				"size_bytes":   {Type: "integer"},
				"page_count":   {Type: "integer"},
				"storage_key":  {Type: "string"},
				"ocr_text":     {Type: "string"},
				"created_at":   {Type: "string", Format: "date-time"},
				"modified_at":  {Type: "string", Format: "date-time"},
				"added_at":     {Type: "string", Format: "date-time"},
			},
		},
		"DocumentPage": pageOf("Document"),
		"ImportCommand": {
			Type:     "object",
			Required: []string{"dir"},
			Properties: map[string]*openapi.Schema{
				"dir":     {Type: "string", Description: "Server-side directory to register"},
				"pattern": {Type: "string", Description: "Base name glob", Default: "*.txt"},
			},
		},
		"BatchResult": {
			Type: "array",
			Items: &openapi.Schema{
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"document": openapi.SchemaRef("Document"),
					"filename": {Type: "string"},
					"error":    {Type: "string"},
				},
			},
		},
		"RecordPage": pageOf("Record"),
		"RecordList": {Type: "array", Items: openapi.SchemaRef("Record")},
		"SearchRequest": {
			Type:     "object",
			Required: []string{"term"},
			Properties: map[string]*openapi.Schema{
				"term":   {Type: "string"},
				"fields": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"Bucket": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"value": {Type: "string"},
				"count": {Type: "integer"},
			},
		},
		"BucketList": buckets,
		"Count": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"count": {Type: "integer"}},
		},
		"Statistics": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"total_documents":  {Type: "integer"},
				"total_aides":      {Type: "integer"},
				"aides_by_status":  buckets,
				"aides_by_type":    buckets,
				"aides_by_nature":  buckets,
				"aides_by_marque":  buckets,
				"aides_with_feu":   {Type: "integer"},
				"aides_with_ais":   {Type: "integer"},
				"aides_with_racon": {Type: "integer"},
			},
		},
		"BatchCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document_ids": uuidList,
				"limit":        {Type: "integer", Minimum: openapi.Float(1), Maximum: openapi.Float(extractions.MaxLimit)},
			},
		},
		"Summary": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"total_processed":  {Type: "integer"},
				"total_saved":      {Type: "integer"},
				"status_breakdown": {Type: "object", AdditionalProperties: &openapi.Schema{Type: "integer"}},
				"aid_ids":          uuidList,
				"save_failures": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"filename": {Type: "string"},
							"error":    {Type: "string"},
						},
					},
				},
			},
		},
	}
}

func pageOf(name string) *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef(name)},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	}
}

func documentPaths() map[string]*openapi.PathItem {
	tags := []string{"Documents"}
	id := openapi.PathParam("id", "Document ID")

	return map[string]*openapi.PathItem{
		"/documents": {
			Get: &openapi.Operation{
				Summary: "List documents",
				Tags:    tags,
				Parameters: []*openapi.Parameter{
					openapi.QueryParam("page", "integer", "Page number", false),
					openapi.QueryParam("page_size", "integer", "Results per page", false),
					openapi.QueryParam("filename", "string", "Filename contains", false),
					openapi.QueryParam("content_type", "string", "Exact content type", false),
				},
				Responses: map[int]*openapi.Response{200: openapi.ResponseJSON("Document page", "DocumentPage")},
			},
			Post: &openapi.Operation{
				Summary: "Upload a document",
				Tags:    tags,
				RequestBody: &openapi.RequestBody{
					Required: true,
					Content: map[string]*openapi.MediaType{
						"multipart/form-data": {Schema: &openapi.Schema{
							Type:     "object",
							Required: []string{"file"},
							Properties: map[string]*openapi.Schema{
								"file":       {Type: "string", Format: "binary"},
								"local_path": {Type: "string"},
							},
						}},
					},
				},
				Responses: map[int]*openapi.Response{
					201: openapi.ResponseJSON("Registered document", "Document"),
					400: openapi.ResponseRef(openapi.BadRequest),
					409: openapi.ResponseRef(openapi.Conflict),
				},
			},
		},
		"/documents/{id}": {
			Get: &openapi.Operation{
				Summary:    "Find a document",
				Tags:       tags,
				Parameters: []*openapi.Parameter{id},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Document", "Document"),
					404: openapi.ResponseRef(openapi.NotFound),
				},
			},
			Delete: &openapi.Operation{
				Summary:    "Delete a document",
				Tags:       tags,
				Parameters: []*openapi.Parameter{id},
				Responses: map[int]*openapi.Response{
					204: {Description: "Deleted"},
					404: openapi.ResponseRef(openapi.NotFound),
				},
			},
		},
		"/documents/search": {
			Post: &openapi.Operation{
				Summary:     "Search documents",
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON("PageRequest", true),
				Responses:   map[int]*openapi.Response{200: openapi.ResponseJSON("Document page", "DocumentPage")},
			},
		},
		"/documents/import": {
			Post: &openapi.Operation{
				Summary:     "Register a server-side directory",
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON("ImportCommand", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Per-file results", "BatchResult"),
					400: openapi.ResponseRef(openapi.BadRequest),
				},
			},
		},
	}
}

func aidPaths() map[string]*openapi.PathItem {
	tags := []string{"Aids"}
	list := openapi.ResponseJSON("Record page", "RecordPage")

	return map[string]*openapi.PathItem{
		"/aids": {
			Get: &openapi.Operation{
				Summary: "List navigation aid records",
				Tags:    tags,
				Parameters: []*openapi.Parameter{
					openapi.QueryParam("page", "integer", "Page number", false),
					openapi.QueryParam("page_size", "integer", "Results per page", false),
					openapi.QueryParam("status", "string", "Extraction status", false),
					openapi.QueryParam("type", "string", "Document type", false),
				},
				Responses: map[int]*openapi.Response{200: list},
			},
		},
		"/aids/query": {
			Post: &openapi.Operation{
				Summary:     "Query records with pagination and filters",
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON("PageRequest", true),
				Responses:   map[int]*openapi.Response{200: list},
			},
		},
		"/aids/{id}": {
			Get: &openapi.Operation{
				Summary:    "Find a record",
				Tags:       tags,
				Parameters: []*openapi.Parameter{openapi.PathParam("id", "Record ID")},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Record", "Record"),
					404: openapi.ResponseRef(openapi.NotFound),
				},
			},
		},
		"/aids/identifier/{identifier}": {
			Get: &openapi.Operation{
				Summary: "Most recent record for an ESM/SYSSI identifier",
				Tags:    tags,
				Parameters: []*openapi.Parameter{{
					Name:     "identifier",
					In:       "path",
					Required: true,
					Schema:   &openapi.Schema{Type: "string"},
				}},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Record", "Record"),
					404: openapi.ResponseRef(openapi.NotFound),
				},
			},
		},
		"/aids/search": {
			Post: &openapi.Operation{
				Summary:     "Search records by term",
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON("SearchRequest", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Matching records", "RecordList"),
					400: openapi.ResponseRef(openapi.BadRequest),
				},
			},
		},
		"/aids/aggregate/{field}": {
			Get: &openapi.Operation{
				Summary: "Top values of a field",
				Tags:    tags,
				Parameters: []*openapi.Parameter{{
					Name:     "field",
					In:       "path",
					Required: true,
					Schema:   &openapi.Schema{Type: "string"},
				}},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Buckets", "BucketList"),
					400: openapi.ResponseRef(openapi.BadRequest),
				},
			},
		},
		"/aids/count": {
			Get: &openapi.Operation{
				Summary:   "Count records",
				Tags:      tags,
				Responses: map[int]*openapi.Response{200: openapi.ResponseJSON("Count", "Count")},
			},
		},
		"/aids/statistics": {
			Get: &openapi.Operation{
				Summary:   "Record statistics",
				Tags:      tags,
				Responses: map[int]*openapi.Response{200: openapi.ResponseJSON("Statistics", "Statistics")},
			},
		},
		"/aids/export": {
			Get: &openapi.Operation{
				Summary: "Export records as XLSX",
				Tags:    tags,
				Responses: map[int]*openapi.Response{
					200: {
						Description: "Spreadsheet",
						Content: map[string]*openapi.MediaType{
							aids.ExportContentType: {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
						},
					},
				},
			},
		},
	}
}

func extractionPaths() map[string]*openapi.PathItem {
	tags := []string{"Extractions"}
	summary := openapi.ResponseJSON("Run summary", "Summary")

	return map[string]*openapi.PathItem{
		"/extractions/{documentId}": {
			Post: &openapi.Operation{
				Summary:    "Extract one document",
				Tags:       tags,
				Parameters: []*openapi.Parameter{openapi.PathParam("documentId", "Document ID")},
				Responses: map[int]*openapi.Response{
					201: summary,
					404: openapi.ResponseRef(openapi.NotFound),
					422: openapi.ResponseRef(openapi.UnprocessableEntity),
				},
			},
		},
		"/extractions/batch": {
			Post: &openapi.Operation{
				Summary:     "Extract selected or oldest documents",
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON("BatchCommand", false),
				Responses: map[int]*openapi.Response{
					201: summary,
					400: openapi.ResponseRef(openapi.BadRequest),
					404: openapi.ResponseRef(openapi.NotFound),
					422: openapi.ResponseRef(openapi.UnprocessableEntity),
				},
			},
		},
		"/extractions/all": {
			Post: &openapi.Operation{
				Summary:    "Extract registered documents up to a limit",
				Tags:       tags,
				Parameters: []*openapi.Parameter{openapi.QueryParam("limit", "integer", "At most 1000", false)},
				Responses: map[int]*openapi.Response{
					201: summary,
					400: openapi.ResponseRef(openapi.BadRequest),
					404: openapi.ResponseRef(openapi.NotFound),
					422: openapi.ResponseRef(openapi.UnprocessableEntity),
				},
			},
		},
	}
}

func storagePaths() map[string]*openapi.PathItem {
	return map[string]*openapi.PathItem{
		"/storage/download/{key}": {
			Get: &openapi.Operation{
				Summary: "Download a stored source document",
				Tags:    []string{"Storage"},
				Parameters: []*openapi.Parameter{{
					Name:        "key",
					In:          "path",
					Required:    true,
					Description: "Storage key, may contain slashes",
					Schema:      &openapi.Schema{Type: "string"},
				}},
				Responses: map[int]*openapi.Response{
					200: {
						Description: "Document bytes",
						Content: map[string]*openapi.MediaType{
							"application/octet-stream": {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
						},
					},
					400: openapi.ResponseRef(openapi.BadRequest),
					404: openapi.ResponseRef(openapi.NotFound),
					503: openapi.ResponseRef(openapi.ServiceUnavailable),
				},
			},
		},
	}
}
