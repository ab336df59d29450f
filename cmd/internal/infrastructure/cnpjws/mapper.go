package cnpjws

import (
	"strings"
	"time"

	"consultacnpj/cmd/internal/domain/cnpj"
	"consultacnpj/cmd/internal/domain/entity"
	"consultacnpj/cmd/internal/utils/format"
)

var sizeAcronyms = map[int]string{
	1: "ME",
	3: "EPP",
	5: "DEMAIS",
}

// ToDomain flattens the registry document into the canonical record. It never
// fails: anything missing or malformed degrades to nil or an empty collection.
func (c *companyResponse) ToDomain() *entity.Company {
	est := c.Establishment
	if est == nil {
		est = &establishmentResponse{}
	}

	company := &entity.Company{
		TaxID:          cnpj.Clean(est.CNPJ.String()),
		Alias:          est.TradeName.Ptr(),
		Founded:        entity.ParseDate(est.BusinessStartDate.String()),
		Updated:        parseTimestamp(c.UpdatedAt.String()),
		Head:           strings.EqualFold(est.Type.String(), "MATRIZ"),
		StatusDate:     entity.ParseDate(est.RegistrationStatusDate.String()),
		Status:         entity.Label{ID: statusID(est.RegistrationStatus.String()), Text: est.RegistrationStatus.Ptr()},
		Reason:         toLabel(est.RegistrationStatusReason),
		Special:        toSpecialStatus(est),
		Company:        c.toCompanyInfo(),
		Address:        toAddress(est),
		Phones:         toPhones(est),
		Fax:            toPhone(est.FaxAreaCode.String(), est.Fax.String()),
		Emails:         toEmails(est.Email.String()),
		MainActivity:   toActivity(est.MainActivity),
		SideActivities: toActivities(est.SideActivities),
		Registrations:  toRegistrations(est.StateRegistrations),
		Suframa:        []entity.Suframa{},
	}

	return company
}

func (c *companyResponse) toCompanyInfo() entity.CompanyInfo {
	info := entity.CompanyInfo{
		ID:           c.RootCNPJ.Int(),
		Name:         c.LegalName.Ptr(),
		Equity:       parseEquity(c.ShareCapital.String()),
		Nature:       toLabel(c.LegalNature),
		Size:         toSize(c.Size),
		Jurisdiction: c.FederativeResponsible.Ptr(),
		Members:      toMembers(c.Partners),
	}

	if c.Simples != nil {
		info.Simples = toRegime(c.Simples.Simples, c.Simples.SimplesSince)
		info.Simei = toRegime(c.Simples.MEI, c.Simples.MEISince)
	}
	return info
}

func parseEquity(raw string) float64 {
	d, err := format.ParseCurrency(raw)
	if err != nil {
		return 0
	}
	f, _ := d.Round(2).Float64()
	return f
}

func parseTimestamp(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// statusID follows the Receita Federal codes for registration status.
func statusID(status string) *int {
	switch strings.ToUpper(status) {
	case "NULA":
		return intPtr(1)
	case "ATIVA":
		return intPtr(2)
	case "SUSPENSA":
		return intPtr(3)
	case "INAPTA":
		return intPtr(4)
	case "BAIXADA":
		return intPtr(8)
	default:
		return nil
	}
}

func toLabel(l *labelResponse) *entity.Label {
	if l == nil || (l.ID == "" && l.Description == "") {
		return nil
	}
	return &entity.Label{ID: l.ID.Int(), Text: l.Description.Ptr()}
}

func toSize(l *labelResponse) *entity.Size {
	if l == nil || (l.ID == "" && l.Description == "") {
		return nil
	}

	size := &entity.Size{ID: l.ID.Int(), Text: l.Description.Ptr()}
	if size.ID != nil {
		if acronym, ok := sizeAcronyms[*size.ID]; ok {
			size.Acronym = strPtr(acronym)
		}
	}
	return size
}

func toSpecialStatus(est *establishmentResponse) *entity.SpecialStatus {
	if est.SpecialStatus == "" {
		return nil
	}
	return &entity.SpecialStatus{
		Text: est.SpecialStatus.Ptr(),
		Date: entity.ParseDate(est.SpecialStatusDate.String()),
	}
}

func toRegime(optant, since flexString) entity.Regime {
	return entity.Regime{
		Optant: isYes(optant.String()),
		Since:  entity.ParseDate(since.String()),
	}
}

func isYes(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SIM", "S", "TRUE", "1":
		return true
	default:
		return false
	}
}

func toMembers(ps []*partnerResponse) []entity.Member {
	members := make([]entity.Member, 0, len(ps))
	for _, p := range ps {
		if p == nil || p.Name == "" {
			continue
		}

		member := entity.Member{
			Since: entity.ParseDate(p.EntryDate.String()),
			Person: entity.Person{
				Name:  p.Name.String(),
				Type:  p.Type.Ptr(),
				TaxID: p.TaxID.Ptr(),
				Age:   p.AgeRange.Ptr(),
			},
		}
		if role := toLabel(p.Role); role != nil {
			member.Role = *role
		}
		members = append(members, member)
	}
	return members
}

func toAddress(est *establishmentResponse) entity.Address {
	street := strings.TrimSpace(est.AddressType.String() + " " + est.AddressStreetName.String())

	addr := entity.Address{
		Street:   flexString(street).Ptr(),
		Number:   est.AddressNumber.Ptr(),
		Details:  est.AddressComplement.Ptr(),
		District: est.AddressNeighborhood.Ptr(),
		Zip:      flexString(cnpj.Clean(est.AddressZipCode.String())).Ptr(),
	}
	if est.City != nil {
		addr.Municipality = est.City.IBGEID.Ptr()
		addr.City = est.City.Name.Ptr()
	}
	if est.State != nil {
		addr.State = est.State.Acronym.Ptr()
	}
	if est.Country != nil {
		addr.Country = est.Country.Name.Ptr()
	}
	return addr
}

func toPhones(est *establishmentResponse) []entity.Phone {
	phones := make([]entity.Phone, 0, 2)
	if p := toPhone(est.AreaCode1.String(), est.Phone1.String()); p != nil {
		phones = append(phones, *p)
	}
	if p := toPhone(est.AreaCode2.String(), est.Phone2.String()); p != nil {
		phones = append(phones, *p)
	}
	return phones
}

func toPhone(area, number string) *entity.Phone {
	number = cnpj.Clean(number)
	if number == "" {
		return nil
	}

	kind := entity.PhoneLandline
	if len(number) == 9 && number[0] == '9' {
		kind = entity.PhoneMobile
	}
	return &entity.Phone{Area: cnpj.Clean(area), Number: number, Type: kind}
}

func toEmails(address string) []entity.Email {
	address = strings.ToLower(strings.TrimSpace(address))
	if address == "" {
		return []entity.Email{}
	}

	email := entity.Email{Address: address, Ownership: entity.EmailCorporate}
	if at := strings.LastIndex(address, "@"); at >= 0 && at < len(address)-1 {
		email.Domain = strPtr(address[at+1:])
	}
	return []entity.Email{email}
}

func toActivity(a *activityResponse) *entity.Activity {
	if a == nil {
		return nil
	}

	id := flexString(cnpj.Clean(a.Subclass.String())).Int()
	if id == nil {
		id = a.ID.Int()
	}
	if id == nil && a.Description == "" {
		return nil
	}
	return &entity.Activity{ID: id, Text: a.Description.Ptr()}
}

func toActivities(as []*activityResponse) []entity.Activity {
	activities := make([]entity.Activity, 0, len(as))
	for _, a := range as {
		if act := toActivity(a); act != nil {
			activities = append(activities, *act)
		}
	}
	return activities
}

func toRegistrations(rs []*registrationResponse) []entity.Registration {
	registrations := make([]entity.Registration, 0, len(rs))
	for _, r := range rs {
		if r == nil || r.Number == "" {
			continue
		}

		enabled := bool(r.Active)
		// The registry does not tell registration types apart
		reg := entity.Registration{
			Number:     r.Number.String(),
			Enabled:    enabled,
			StatusDate: entity.ParseDate(r.UpdatedAt.String()),
			Status:     entity.Label{ID: intPtr(2), Text: strPtr("Bloqueado")},
			Type:       entity.Label{ID: intPtr(1), Text: strPtr("Normal")},
		}
		if enabled {
			reg.Status = entity.Label{ID: intPtr(1), Text: strPtr("Sem restrição")}
		}
		if r.State != nil {
			reg.State = r.State.Acronym.String()
		}
		registrations = append(registrations, reg)
	}
	return registrations
}

func intPtr(n int) *int {
	return &n
}

func strPtr(s string) *string {
	return &s
}
