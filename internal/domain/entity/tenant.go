package entity

// TenantConfig configuración visual de un tenant. Cambia muy poco, se cachea una hora.
type TenantConfig struct {
	Tenant         string `json:"tenant"`
	DisplayName    string `json:"displayName"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	LogoURL        string `json:"logoUrl"`
}
