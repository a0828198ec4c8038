package ledger

import (
	"testing"

	_ "github.com/drif-ai/finance/testing"
)

func TestClassifierFlagsContraAsset(t *testing.T) {
	c := DefaultClassifier()
	cases := []struct {
		name   string
		typ    AccountType
		contra bool
		cash   bool
	}{
		{"Accumulated Depreciation - Equipment", AccountTypeAsset, true, false},
		{"Akumulasi Penyusutan Kendaraan", AccountTypeAsset, true, false},
		{"Akum. Penyusutan Peralatan", AccountTypeAsset, true, false},
		{"Bank BCA", AccountTypeAsset, false, true},
		{"Kas Kecil", AccountTypeAsset, false, true},
		{"Petty Cash", AccountTypeAsset, false, true},
		{"Inventory", AccountTypeAsset, false, false},
		// Non-asset types never carry either flag, whatever the name says.
		{"Cash Back Liability", AccountTypeLiability, false, false},
	}
	for _, tc := range cases {
		acc := Account{Name: tc.name, Type: tc.typ}
		c.Classify(&acc)
		if acc.ContraAsset != tc.contra || acc.CashEquivalent != tc.cash {
			t.Fatalf("%q: got contra=%v cash=%v want contra=%v cash=%v",
				tc.name, acc.ContraAsset, acc.CashEquivalent, tc.contra, tc.cash)
		}
	}
}

func TestNewClassifierFallsBackToDefaults(t *testing.T) {
	c := NewClassifier(nil, []string{" TREASURY "})
	acc := Account{Name: "Accumulated Depreciation", Type: AccountTypeAsset}
	c.Classify(&acc)
	if !acc.ContraAsset {
		t.Fatalf("default contra markers not applied")
	}
	treasury := Account{Name: "Treasury Account", Type: AccountTypeAsset}
	c.Classify(&treasury)
	if !treasury.CashEquivalent {
		t.Fatalf("configured cash marker not normalized")
	}
	bank := Account{Name: "Bank BCA", Type: AccountTypeAsset}
	c.Classify(&bank)
	if bank.CashEquivalent {
		t.Fatalf("configured cash markers must replace defaults")
	}
}
