// Package notification delivers tenant-facing payment reminders and
// confirmations. WebhookNotifier posts JSON messages to the email and push
// gateways; LogNotifier only writes them to the log and is used when no
// gateway is configured.
package notification
