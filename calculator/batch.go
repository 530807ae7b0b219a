package calculator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"craftcalc/logger"
)

// Policy decides what happens to inventory changes when one item of a batch
// fails.
type Policy string

const (
	// PolicyAtomic restores the inventory to its pre-batch state on any
	// failure; the batch either commits entirely or not at all.
	PolicyAtomic Policy = "atomic"
	// PolicyPerItem rolls back only the failing item; items that completed
	// before or after it stay committed.
	PolicyPerItem Policy = "per-item"
)

// ParsePolicy converts a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyAtomic, "":
		return PolicyAtomic, nil
	case PolicyPerItem:
		return PolicyPerItem, nil
	default:
		return "", fmt.Errorf("unknown batch policy %q", s)
	}
}

// Request is one requested item with its canonical name.
type Request struct {
	Item     string
	Quantity float64
}

// Failure records a requested item that could not be resolved under
// PolicyPerItem.
type Failure struct {
	Request Request
	Err     error
}

// Result is the outcome of a batch.
type Result struct {
	Requests  []Request // successfully resolved requests, parallel to Roots
	Roots     []*Node
	Totals    *Totals
	Inventory map[string]float64 // post-run snapshot
	Failures  []Failure
}

// Calculate resolves requests in order against the live inventory. Totals
// start fresh for every batch. Under PolicyAtomic the first error restores
// the inventory and is returned with a nil Result. Under PolicyPerItem every
// request is attempted, the Result holds the successful ones and the
// returned error joins the failures.
func (c *Calculator) Calculate(ctx context.Context, requests []Request) (*Result, error) {
	log := logger.FromContext(ctx)
	prevLog := c.log
	c.log = log
	defer func() { c.log = prevLog }()

	if len(requests) == 0 {
		return nil, &InvalidInputError{Reason: "no items requested"}
	}
	for _, req := range requests {
		if req.Quantity <= 0 {
			return nil, &InvalidInputError{Item: req.Item, Reason: "quantity must be positive"}
		}
	}

	start := time.Now()
	log.Info("Calculation started", "requests", len(requests), "policy", string(c.policy))

	batchSnap := c.inv.Snapshot()
	c.totals = NewTotals()
	res := &Result{}

	for _, req := range requests {
		node, err := c.Resolve(req.Item, req.Quantity)
		if err != nil {
			if c.policy == PolicyPerItem {
				log.Warn("Request failed, rolled back", "item", req.Item, "quantity", req.Quantity, "error", err)
				res.Failures = append(res.Failures, Failure{Request: req, Err: err})
				continue
			}
			c.inv.Restore(batchSnap)
			c.totals = NewTotals()
			log.Warn("Batch rolled back", "item", req.Item, "quantity", req.Quantity, "error", err)
			return nil, fmt.Errorf("failed to resolve %s: %w", req.Item, err)
		}
		res.Requests = append(res.Requests, req)
		res.Roots = append(res.Roots, node)
	}

	res.Totals = c.totals
	res.Inventory = c.inv.Snapshot()
	log.Info("Calculation finished",
		"resolved", len(res.Roots),
		"failed", len(res.Failures),
		"base_items", len(res.Totals.Base),
		"duration", time.Since(start))

	if len(res.Failures) > 0 {
		errs := make([]error, 0, len(res.Failures))
		for _, f := range res.Failures {
			errs = append(errs, fmt.Errorf("failed to resolve %s: %w", f.Request.Item, f.Err))
		}
		return res, errors.Join(errs...)
	}
	return res, nil
}
