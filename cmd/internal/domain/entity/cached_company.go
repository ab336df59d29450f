package entity

// CachedCompany is the SQLite row behind the sqlite cache backend.
// Data holds the JSON encoded Company and is empty for negative entries.
type CachedCompany struct {
	CNPJ     string `gorm:"primaryKey;size:14"`
	Found    bool   `gorm:"not null"`
	Data     []byte
	CachedAt int64 `gorm:"not null;index"`
}

func (CachedCompany) TableName() string {
	return "company_cache"
}
