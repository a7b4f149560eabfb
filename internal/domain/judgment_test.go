package domain

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"security", CategorySecurity, false},
		{"access", CategoryAccess, false},
		{"hardware", CategoryHardware, false},
		{"software", CategorySoftware, false},
		{"network", CategoryNetwork, false},
		{"general", CategoryGeneral, false},
		{"SECURITY", "", true},
		{"billing", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	for _, valid := range []string{"low", "medium", "high"} {
		if _, err := ParsePriority(valid); err != nil {
			t.Errorf("ParsePriority(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"urgent", "HIGH", ""} {
		if _, err := ParsePriority(invalid); err == nil {
			t.Errorf("ParsePriority(%q) expected error", invalid)
		}
	}
}

func TestParseStaffRole(t *testing.T) {
	for _, valid := range []string{
		"SOFTWARE_SECURITY_OFFICER",
		"IT_HELPDESK_MANAGER",
		"HR_COORDINATOR",
		"PROCUREMENT_OFFICER",
		"NETWORK_ADMIN",
	} {
		if _, err := ParseStaffRole(valid); err != nil {
			t.Errorf("ParseStaffRole(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseStaffRole("CEO"); err == nil {
		t.Error("ParseStaffRole(\"CEO\") expected error")
	}
}

func TestPriorityEscalated(t *testing.T) {
	tests := []struct {
		in   Priority
		want Priority
	}{
		{PriorityLow, PriorityMedium},
		{PriorityMedium, PriorityHigh},
		{PriorityHigh, PriorityHigh},
	}
	for _, tt := range tests {
		if got := tt.in.Escalated(); got != tt.want {
			t.Errorf("%s.Escalated() = %s, want %s", tt.in, got, tt.want)
		}
	}
}
