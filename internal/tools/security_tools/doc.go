// Package security_tools provides MCP tools for SELISE Blocks social login,
// CAPTCHA and multi-factor authentication.
//
// # Available Tools
//
//   - get_authentication_config: Fetch token lifetimes and grant types
//   - list_captcha_configs: List CAPTCHA configurations
//   - activate_social_login: Enable the social grant type (write mode only)
//   - add_sso_credential: Register an OAuth provider (write mode only)
//   - save_captcha_config: Store a CAPTCHA provider config (write mode only)
//   - update_captcha_status: Toggle a CAPTCHA config (write mode only)
//   - enable_email_mfa: Enable email MFA (write mode only)
//   - enable_authenticator_mfa: Enable authenticator MFA (write mode only)
//
// Credentials never appear in tool output; client IDs and site keys are
// truncated for display.
package security_tools
