package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string // empty disables the X-API-Key check

	// Registry serves /metrics. The default Prometheus registry is used when nil.
	Registry *prometheus.Registry
}

// HeaderResponse is the JSON form of a record header
type HeaderResponse struct {
	StalenessValidation          string `json:"staleness_validation"`
	RightOfAssociationValidation string `json:"right_of_association_validation"`
	ContentLength                uint32 `json:"content_length"`
}

// RecordResponse is the JSON form of a decoded record account
type RecordResponse struct {
	Key         string         `json:"key,omitempty"`
	Header      HeaderResponse `json:"header"`
	StalenessID string         `json:"staleness_id,omitempty"`
	RoAID       string         `json:"roa_id,omitempty"`
	Content     []byte         `json:"content"`
	Size        int            `json:"size"`
	Valid       bool           `json:"valid"` // content length matches the header
}

// BatchRequest asks for several records in one call
type BatchRequest struct {
	Keys []string `json:"keys"`
}

// InstructionRequest carries the arguments of any records instruction.
// Fields an operation does not use are ignored.
type InstructionRequest struct {
	FeePayer    string `json:"fee_payer"`
	Record      string `json:"record"`
	Domain      string `json:"domain"`
	DomainOwner string `json:"domain_owner"`
	Verifier    string `json:"verifier,omitempty"`

	RecordName     string `json:"record_name,omitempty"`
	Content        string `json:"content,omitempty"`
	ContentLength  uint32 `json:"content_length,omitempty"`
	Validation     string `json:"validation,omitempty"`
	Signature      string `json:"signature,omitempty"`       // hex
	ExpectedPubkey string `json:"expected_pubkey,omitempty"` // hex
	Staleness      bool   `json:"staleness,omitempty"`
	RoaID          string `json:"roa_id,omitempty"`
}

// AccountMetaResponse is one account of an encoded instruction
type AccountMetaResponse struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

// InstructionResponse is an encoded instruction
type InstructionResponse struct {
	Op        string                `json:"op"`
	ProgramID string                `json:"program_id"`
	Accounts  []AccountMetaResponse `json:"accounts"`
	Data      []byte                `json:"data"`
}
