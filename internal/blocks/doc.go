// Package blocks is the HTTP client for the SELISE Blocks cloud API.
//
// The client mirrors the vendor's own web console: every request carries the
// console's browser header set plus the x-blocks-key, and authenticated
// requests add the bearer token obtained through the password-grant login.
// Methods are grouped by platform service (projects, schemas, IAM, captcha,
// MFA, SSO, data gateway, cloud build).
package blocks
