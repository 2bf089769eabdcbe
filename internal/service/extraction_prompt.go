package service

// ExtractionPrompt is sent with every document so the webhook answers with the
// shape decodePayload understands.
const ExtractionPrompt = `Extract the data of this Brazilian nota fiscal (NF-e, NFC-e or SAT) and answer ONLY with JSON in exactly this format:
{
  "access_key": "44-digit access key without spaces",
  "number": "invoice number",
  "series": "series",
  "issue_date": "YYYY-MM-DD",
  "total_amount": "total amount using a dot as decimal separator",
  "kind": "nfe | nfce | sat",
  "emitente": {
    "cnpj": "issuer CNPJ",
    "name": "issuer name"
  },
  "itens": [
    {
      "description": "item description",
      "quantity": "quantity",
      "unit_price": "unit price",
      "line_total": "line total"
    }
  ]
}
Use null for any field you cannot read. Do not add any other field or any text outside the JSON.`

// extractionSchema mirrors ExtractionPrompt. Scalars may come back as strings or
// numbers, and null means unreadable.
const extractionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "scalar": {"type": ["string", "number", "null"]}
  },
  "properties": {
    "access_key":   {"$ref": "#/definitions/scalar"},
    "number":       {"$ref": "#/definitions/scalar"},
    "series":       {"$ref": "#/definitions/scalar"},
    "issue_date":   {"$ref": "#/definitions/scalar"},
    "total_amount": {"$ref": "#/definitions/scalar"},
    "kind":         {"type": ["string", "null"]},
    "emitente": {
      "type": ["object", "null"],
      "properties": {
        "cnpj": {"$ref": "#/definitions/scalar"},
        "name": {"$ref": "#/definitions/scalar"}
      }
    },
    "itens": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "description": {"$ref": "#/definitions/scalar"},
          "quantity":    {"$ref": "#/definitions/scalar"},
          "unit_price":  {"$ref": "#/definitions/scalar"},
          "line_total":  {"$ref": "#/definitions/scalar"}
        }
      }
    }
  },
  "required": ["number", "issue_date", "total_amount"]
}`
