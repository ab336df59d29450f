package entity

import "time"

const (
	PhoneLandline = "LANDLINE"
	PhoneMobile   = "MOBILE"

	EmailCorporate = "CORPORATE"
)

// Company is the canonical registration record served to clients. Optional
// fields are pointers and collections are never nil, so the JSON shape is stable
// no matter how much the upstream registry knows about the company.
type Company struct {
	TaxID          string         `json:"taxId"`
	Alias          *string        `json:"alias"`
	Founded        *Date          `json:"founded"`
	Updated        *time.Time     `json:"updated"`
	Head           bool           `json:"head"`
	StatusDate     *Date          `json:"statusDate"`
	Status         Label          `json:"status"`
	Reason         *Label         `json:"reason"`
	Special        *SpecialStatus `json:"special"`
	Company        CompanyInfo    `json:"company"`
	Address        Address        `json:"address"`
	Phones         []Phone        `json:"phones"`
	Fax            *Phone         `json:"fax"`
	Emails         []Email        `json:"emails"`
	MainActivity   *Activity      `json:"mainActivity"`
	SideActivities []Activity     `json:"sideActivities"`
	Registrations  []Registration `json:"registrations"`
	Suframa        []Suframa      `json:"suframa"`
}

type Label struct {
	ID   *int    `json:"id,omitempty"`
	Text *string `json:"text"`
}

type SpecialStatus struct {
	Text *string `json:"text"`
	Date *Date   `json:"date"`
}

type CompanyInfo struct {
	ID           *int     `json:"id"`
	Name         *string  `json:"name"`
	Equity       float64  `json:"equity"`
	Nature       *Label   `json:"nature"`
	Size         *Size    `json:"size"`
	Jurisdiction *string  `json:"jurisdiction"`
	Simples      Regime   `json:"simples"`
	Simei        Regime   `json:"simei"`
	Members      []Member `json:"members"`
}

type Size struct {
	ID      *int    `json:"id"`
	Acronym *string `json:"acronym"`
	Text    *string `json:"text"`
}

// Regime describes the opt-in state for the Simples Nacional or SIMEI tax regimes.
type Regime struct {
	Optant bool  `json:"optant"`
	Since  *Date `json:"since"`
}

type Member struct {
	Since  *Date  `json:"since"`
	Person Person `json:"person"`
	Role   Label  `json:"role"`
}

type Person struct {
	Name  string  `json:"name"`
	Type  *string `json:"type"`
	TaxID *string `json:"taxId"`
	Age   *string `json:"age"`
}

type Address struct {
	Municipality *string `json:"municipality"`
	Street       *string `json:"street"`
	Number       *string `json:"number"`
	Details      *string `json:"details"`
	District     *string `json:"district"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Zip          *string `json:"zip"`
	Country      *string `json:"country"`
}

type Phone struct {
	Area   string `json:"area"`
	Number string `json:"number"`
	Type   string `json:"type"`
}

type Email struct {
	Address   string  `json:"address"`
	Ownership string  `json:"ownership"`
	Domain    *string `json:"domain"`
}

type Activity struct {
	ID   *int    `json:"id"`
	Text *string `json:"text"`
}

// Registration is a state tax registration (inscrição estadual).
type Registration struct {
	Number     string `json:"number"`
	State      string `json:"state"`
	Enabled    bool   `json:"enabled"`
	StatusDate *Date  `json:"statusDate"`
	Status     Label  `json:"status"`
	Type       Label  `json:"type"`
}

// Suframa is kept for shape compatibility; the registry we query has no SUFRAMA data.
type Suframa struct {
	Number   string `json:"number"`
	Approved bool   `json:"approved"`
}
