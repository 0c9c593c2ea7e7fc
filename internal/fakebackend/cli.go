package fakebackend

import "os"

// ShowHelp prints usage information for the fake backend.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`pactum fake backend
===================

Serves deterministic synthetic contract-management reports.

Usage:
  go run ./cmd/fake-backend [options]

Options:
  -addr string
        Listen address (default ":5000")
  -contracts int
        Contracts in the directory (default 12)
  -penalties int
        Penalty rows (default 18)
  -deliverables int
        Overdue deliverable rows (default 10)
  -alerts int
        Deadline alerts (default 8)
  -seed int
        Random seed (default 42)
  -latency duration
        Artificial latency per response (default 0)
  -fail string
        Comma-separated sources answering 503:
        penalties, due-deliverables, contracts, alerts, alerts-check,
        contract-status, deliveries-by-supplier, deliveries-by-orgunit
  -verbose
        Log every request
  -help
        Show this help message

Examples:
  # Partial outage: penalties still load, deliverables fail
  go run ./cmd/fake-backend -fail due-deliverables

  # Total outage of the risk sources
  go run ./cmd/fake-backend -fail penalties,due-deliverables
`)
}
