package argenta

import "encoding/json"

// Account is an account entry from the bank's account list.
type Account struct {
	ID    string `json:"id"`
	IBAN  string `json:"iban"`
	Alias string `json:"alias"`
}

// AccountsResponse is the payload of the accounts endpoint.
type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

// Movement is a single accounting movement as returned by the bank. Amounts
// arrive as JSON numbers; they are kept as json.Number so no precision is
// lost before the mapper converts them to minor units.
type Movement struct {
	AccountNumber                 string      `json:"accountNumber"`
	AccountingDate                string      `json:"accountingDate"`
	CommunicationPart1            string      `json:"communicationPart1"`
	CommunicationPart2            string      `json:"communicationPart2"`
	CounterPartyAccountNumber     string      `json:"counterPartyAccountNumber"`
	CounterpartyName              string      `json:"counterpartyName"`
	Identifier                    string      `json:"identifier"`
	IsRejectable                  bool        `json:"isRejectable"`
	MovementAmount                json.Number `json:"movementAmount"`
	MovementSign                  string      `json:"movementSign"`
	OperationCounterparty         string      `json:"operationCounterparty"`
	OperationDate                 string      `json:"operationDate"`
	OperationReference            string      `json:"operationReference"`
	OrderAmount                   json.Number `json:"orderAmount"`
	PispParticipantName           string      `json:"pispParticipantName"`
	RejectionIdentifier           string      `json:"rejectionIdentifier"`
	StandardWording               string      `json:"standardWording"`
	StructuredCommunicationSwitch string      `json:"structuredCommunicationSwitch"`
	ValueDate                     string      `json:"valueDate"`
}

// MovementsResponse is one page of movements plus the account's total row
// count, which the sync uses as its high-water mark.
type MovementsResponse struct {
	Result   []Movement `json:"result"`
	RowCount int        `json:"rowCount"`
}

// SessionStatus describes the stored session.
type SessionStatus struct {
	HasSession bool `json:"hasSession"`
	IsValid    bool `json:"isValid"`
}

// LoginResult is the outcome of a completed interactive login.
type LoginResult struct {
	Accounts []Account
}
