package domain

// Settings holds an organization's channel and role configuration. Fields are
// empty until an operator configures them; the channel resolver treats an
// empty channel id as not configured.
type Settings struct {
	OrgID          string
	PanelChannel   string // where the clock-in/out panel lives
	NotifyChannel  string // auto-close notices are delivered here
	PaymentChannel string // payment gateway request/reply channel
	AdminRole      string // role allowed to issue administrative adjustments
	Beneficiary    string // payment beneficiary id sent with the activation request
}
