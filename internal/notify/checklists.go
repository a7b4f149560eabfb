package notify

import "github.com/spec-kit/helpdesk-triage/internal/domain"

// categoryChecklists holds the canned remediation steps per ticket category.
var categoryChecklists = map[domain.Category]string{
	domain.CategorySecurity: `1. Password Reset:
   - Guide employee through self-service password reset
   - Verify identity before providing new credentials
   - Enable MFA if not already active

2. Security Investigation:
   - Check recent login attempts and locations
   - Scan for suspicious activities
   - Update security protocols if needed

3. Next Steps:
   - Reply with temporary password if urgent
   - Schedule security training if needed`,

	domain.CategoryHardware: `1. Hardware Troubleshooting:
   - Remote diagnostics if possible
   - Check warranty and support options
   - Prepare replacement equipment if needed

2. Quick Fixes:
   - Restart and driver updates
   - Check connections and cables
   - Test with different user account

3. Next Steps:
   - Schedule on-site visit if needed
   - Order replacement parts
   - Provide loaner equipment if available`,

	domain.CategoryNetwork: `1. Network Diagnostics:
   - Check VPN server status
   - Verify network connectivity
   - Test DNS and firewall settings

2. Quick Solutions:
   - Restart network equipment
   - Update VPN client software
   - Check network cables and WiFi

3. Next Steps:
   - Contact ISP if needed
   - Update network infrastructure
   - Provide mobile hotspot if urgent`,

	domain.CategorySoftware: `1. Software Support:
   - Check license availability
   - Verify system requirements
   - Download latest version

2. Installation Help:
   - Remote installation assistance
   - Troubleshoot installation errors
   - Configure software settings

3. Next Steps:
   - Purchase additional licenses if needed
   - Schedule training session
   - Document configuration for future reference`,

	domain.CategoryAccess: `1. Account Management:
   - Create new user accounts
   - Set up email and system access
   - Configure security groups and permissions

2. Onboarding Process:
   - Prepare hardware and software
   - Schedule orientation meeting
   - Provide access credentials securely

3. Documentation:
   - Update employee directory
   - Create IT checklist for manager
   - Schedule follow-up for first week`,
}

// genericChecklist covers any category without a dedicated checklist.
const genericChecklist = `1. General IT Support:
   - Gather more information about the issue
   - Provide step-by-step troubleshooting
   - Schedule follow-up if needed

2. Next Steps:
   - Contact employee for clarification
   - Escalate to specialist if needed
   - Document solution for knowledge base`

// checklistFor selects the remediation checklist for a category.
func checklistFor(category domain.Category) string {
	if checklist, ok := categoryChecklists[category]; ok {
		return checklist
	}
	return genericChecklist
}
