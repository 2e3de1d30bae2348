// internal/api/schemas.go
package api

// JSON schemas for POST/DELETE payloads, enforced before any store access.

const benefitsPostSchema = `{
	"type": "object",
	"required": ["planKey", "benefits"],
	"properties": {
		"planKey":  { "type": "string", "minLength": 1 },
		"benefits": { "type": "object" }
	}
}`

const planEditPostSchema = `{
	"type": "object",
	"required": ["planId", "edits"],
	"properties": {
		"planId": { "type": "string", "minLength": 1 },
		"edits": {
			"type": "object",
			"properties": {
				"plan":    { "type": "string" },
				"network": { "type": "string" },
				"copay":   { "type": "string" }
			}
		}
	}
}`

const planEditDeleteSchema = `{
	"type": "object",
	"required": ["planId"],
	"properties": {
		"planId": { "type": "string", "minLength": 1 }
	}
}`

const manualPlansPostSchema = `{
	"type": "object",
	"required": ["plans"],
	"properties": {
		"plans": { "type": "object" }
	}
}`

const manualPlanDeleteSchema = `{
	"type": "object",
	"required": ["providerKey", "planId"],
	"properties": {
		"providerKey": { "type": "string", "minLength": 1 },
		"planId":      { "type": "string", "minLength": 1 }
	}
}`

const searchPostSchema = `{
	"type": "object",
	"required": ["members", "settings"],
	"properties": {
		"members": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["id"],
				"properties": {
					"id":          { "type": "integer" },
					"dob":         { "type": "string" },
					"gender":      { "type": "string", "enum": ["Male", "Female"] },
					"sponsorship": { "type": "string", "enum": ["Principal", "Husband", "Wife", "Father", "Mother", "Dependent"] }
				}
			}
		},
		"settings": {
			"type": "object",
			"required": ["location", "salaryCategory"],
			"properties": {
				"location":       { "type": "string", "enum": ["Dubai", "Northern Emirates"] },
				"salaryCategory": { "type": "string", "enum": ["below4000", "above4000"] }
			}
		},
		"localOverrides": { "type": "object" }
	}
}`

const historyPostSchema = `{
	"type": "object",
	"required": ["members", "settings"],
	"properties": {
		"members":  { "type": "array" },
		"settings": { "type": "object" },
		"selected": { "type": "object" }
	}
}`
