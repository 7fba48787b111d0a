package pipeline

import "encoding/json"

// Strict-mode JSON schemas bound to each stage's model call. Strict structured
// outputs require every property listed in required and additionalProperties
// false; optional fields are expressed as nullable. Numeric range and count
// limits are enforced by the validation gate, not the schema.

var structuredFeedbackSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "journey_stage": {"type": "string"},
    "issue_type": {"type": "string", "enum": ["ux", "bug", "service", "pricing", "inventory", "delivery", "other"]},
    "emotion": {"type": "string", "enum": ["neutral", "annoyed", "frustrated", "angry"]},
    "severity": {"type": "integer"},
    "summary": {"type": "string"},
    "evidence_quotes": {"type": "array", "items": {"type": "string"}},
    "followup_needed": {"type": "boolean"},
    "followup_goal": {"type": ["string", "null"]}
  },
  "required": ["journey_stage", "issue_type", "emotion", "severity", "summary", "evidence_quotes", "followup_needed", "followup_goal"],
  "additionalProperties": false
}`)

var surveyDraftSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "prompt": {"type": "string"},
          "type": {"type": "string", "enum": ["single_choice", "scale_1_5", "short_text"]},
          "choices": {"type": ["array", "null"], "items": {"type": "string"}}
        },
        "required": ["prompt", "type", "choices"],
        "additionalProperties": false
      }
    }
  },
  "required": ["title", "questions"],
  "additionalProperties": false
}`)

var actionPlanSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "top_theme": {"type": "string"},
    "recommended_action": {"type": "string"},
    "owner": {"type": "string", "enum": ["Store Ops", "Product", "Support", "Delivery", "Unknown"]},
    "impact": {"type": "string", "enum": ["low", "medium", "high"]},
    "effort": {"type": "string", "enum": ["low", "medium", "high"]},
    "tickets": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "ticket_id": {"type": "string"},
          "role": {"type": "string", "enum": ["Product Manager", "Software Engineer", "Field Operations"]},
          "summary": {"type": "string"},
          "description": {"type": "string"},
          "acceptance_criteria": {"type": "array", "items": {"type": "string"}},
          "priority": {"type": "string", "enum": ["P0", "P1", "P2", "P3"]}
        },
        "required": ["ticket_id", "role", "summary", "description", "acceptance_criteria", "priority"],
        "additionalProperties": false
      }
    }
  },
  "required": ["top_theme", "recommended_action", "owner", "impact", "effort", "tickets"],
  "additionalProperties": false
}`)
