package service

import (
	"fmt"
	"strconv"

	"imani/config"
	"imani/internal/domain"
	"imani/internal/repository"
	"imani/pkg/daraja"
)

// SettingsService resolves effective configuration per operation: stored
// overrides take precedence over environment defaults. Nothing is cached;
// callers resolve at the point of use so admin changes apply immediately.
type SettingsService struct {
	repo *repository.SettingRepository
	cfg  *config.Config
}

func NewSettingsService(repo *repository.SettingRepository, cfg *config.Config) *SettingsService {
	return &SettingsService{repo: repo, cfg: cfg}
}

// Defaults returns the environment-derived defaults for a setting type.
func (s *SettingsService) Defaults(settingType string) map[string]string {
	switch settingType {
	case domain.SettingTypeGeneral:
		return map[string]string{
			"siteName":        s.cfg.Site.Name,
			"siteDescription": s.cfg.Site.Description,
			"contactEmail":    s.cfg.Site.ContactEmail,
			"contactPhone":    s.cfg.Site.ContactPhone,
		}
	case domain.SettingTypeMpesa:
		return map[string]string{
			"baseUrl":          s.cfg.Mpesa.BaseURL,
			"consumerKey":      s.cfg.Mpesa.ConsumerKey,
			"consumerSecret":   s.cfg.Mpesa.ConsumerSecret,
			"shortcode":        s.cfg.Mpesa.Shortcode,
			"passKey":          s.cfg.Mpesa.PassKey,
			"callbackUrl":      s.cfg.Mpesa.CallbackURL,
			"accountReference": s.cfg.Mpesa.AccountReference,
			"transactionDesc":  s.cfg.Mpesa.TransactionDesc,
		}
	case domain.SettingTypeEmail:
		return map[string]string{
			"smtpHost":        s.cfg.Email.SMTPHost,
			"smtpPort":        strconv.Itoa(s.cfg.Email.SMTPPort),
			"smtpUser":        s.cfg.Email.SMTPUser,
			"smtpPass":        s.cfg.Email.SMTPPass,
			"emailFrom":       s.cfg.Email.From,
			"emailFromName":   s.cfg.Email.FromName,
			"reportRecipient": s.cfg.Email.ReportRecipient,
		}
	}
	return map[string]string{}
}

// Resolve merges stored overrides over environment defaults for a type.
func (s *SettingsService) Resolve(settingType string) (map[string]string, error) {
	merged := s.Defaults(settingType)
	overrides, err := s.repo.GetByType(settingType)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		if o.Value != "" {
			merged[o.Key] = o.Value
		}
	}
	return merged, nil
}

// ResolveMpesa builds the gateway client config, failing on missing required keys.
func (s *SettingsService) ResolveMpesa() (daraja.Config, error) {
	m, err := s.Resolve(domain.SettingTypeMpesa)
	if err != nil {
		return daraja.Config{}, err
	}
	for _, key := range []string{"baseUrl", "consumerKey", "consumerSecret", "shortcode", "passKey", "callbackUrl"} {
		if m[key] == "" {
			return daraja.Config{}, fmt.Errorf("missing configuration: %s", key)
		}
	}
	return daraja.Config{
		BaseURL:          m["baseUrl"],
		ConsumerKey:      m["consumerKey"],
		ConsumerSecret:   m["consumerSecret"],
		Shortcode:        m["shortcode"],
		PassKey:          m["passKey"],
		CallbackURL:      m["callbackUrl"],
		AccountReference: m["accountReference"],
		TransactionDesc:  m["transactionDesc"],
	}, nil
}

// EmailSettings is the resolved SMTP configuration.
type EmailSettings struct {
	Host            string
	Port            int
	User            string
	Pass            string
	From            string
	FromName        string
	ReportRecipient string
}

func (s *SettingsService) ResolveEmail() (EmailSettings, error) {
	m, err := s.Resolve(domain.SettingTypeEmail)
	if err != nil {
		return EmailSettings{}, err
	}
	if m["smtpHost"] == "" || m["emailFrom"] == "" {
		return EmailSettings{}, fmt.Errorf("missing configuration: smtpHost/emailFrom")
	}
	port, err := strconv.Atoi(m["smtpPort"])
	if err != nil || port <= 0 {
		port = 465
	}
	return EmailSettings{
		Host:            m["smtpHost"],
		Port:            port,
		User:            m["smtpUser"],
		Pass:            m["smtpPass"],
		From:            m["emailFrom"],
		FromName:        m["emailFromName"],
		ReportRecipient: m["reportRecipient"],
	}, nil
}
