package domain

// MonthlyCharge is an ad-hoc charge for one tenant and one calendar
// month (key "YYYY-MM"). Once IsBilled is true the charge has been
// folded into a verified payment; only the payment reconciler flips it
// back on a payment reversal.
type MonthlyCharge struct {
	TenantID        string
	Month           string
	ElectricityBill int64
	OtherCharges    int64
	Description     string
	IsBilled        bool
}

func (c MonthlyCharge) Total() int64 {
	return c.ElectricityBill + c.OtherCharges
}

// UnbilledTotal sums electricity and other charges over the unbilled
// subset of charges.
func UnbilledTotal(charges []MonthlyCharge) int64 {
	var total int64
	for _, c := range charges {
		if !c.IsBilled {
			total += c.Total()
		}
	}
	return total
}
