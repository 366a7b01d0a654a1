/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package manifest

// snapshotSchema is the JSON Schema every manifest file must satisfy
// before any downstream stage will consume it. Validation happens in
// Load; a manifest that fails here is treated as unreadable.
const snapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "docguard manifest snapshot",
  "type": "object",
  "required": ["generated_at", "root", "documents", "counts"],
  "properties": {
    "generated_at": {"type": "string"},
    "root": {"type": "string"},
    "documents": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["path", "title", "header_state", "updated_at", "is_redirect"],
        "properties": {
          "path": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "header_state": {"enum": ["present", "missing", "malformed"]},
          "header": {
            "type": "object",
            "properties": {
              "status": {"type": "string"},
              "type": {"type": "string"},
              "owner": {"type": "string"},
              "module": {"type": "string"},
              "redirect": {"type": "boolean"},
              "moved_to": {"type": "string"}
            },
            "additionalProperties": false
          },
          "fingerprint": {"type": "string"},
          "updated_at": {"type": "string"},
          "is_redirect": {"type": "boolean"},
          "moved_to": {"type": "string"},
          "orphan": {"type": "boolean"}
        },
        "additionalProperties": false
      }
    },
    "counts": {
      "type": "object",
      "required": ["total"],
      "properties": {
        "total": {"type": "integer", "minimum": 0},
        "by_status": {"type": "object"},
        "by_type": {"type": "object"},
        "by_module": {"type": "object"},
        "missing_headers": {"type": "integer"},
        "malformed_headers": {"type": "integer"},
        "orphans": {"type": "integer"},
        "redirects": {"type": "integer"},
        "exact_duplicate_groups": {"type": "integer"}
      }
    }
  },
  "additionalProperties": false
}`
