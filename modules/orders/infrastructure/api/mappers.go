package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
)

func toDomainServiceRequest(m serviceRequestModel) *order.ServiceRequest {
	return &order.ServiceRequest{
		ID:            m.ID,
		Description:   m.Description,
		ApprovalState: order.ApprovalState(m.ApprovalState),
		RequestState:  m.RequestState,
		CreatedOn:     m.CreatedOn,
	}
}

func toDomainOrder(m serviceOrderModel) *order.Order {
	o := &order.Order{
		ID:        m.ID,
		Name:      m.Name,
		State:     m.State,
		PlacedAt:  m.PlacedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.ServiceRequests != nil {
		o.ServiceRequests = make([]*order.ServiceRequest, 0, len(*m.ServiceRequests))
		for _, sr := range *m.ServiceRequests {
			o.ServiceRequests = append(o.ServiceRequests, toDomainServiceRequest(sr))
		}
	}
	return o
}

// toDomainPage decodes every resource on its own. Resources that cannot be
// decoded are logged and skipped.
func toDomainPage(m collectionModel, log *logrus.Entry) *order.Page {
	page := &order.Page{
		Count:     m.Count,
		Subcount:  m.Subcount,
		Resources: make([]*order.Order, 0, len(m.Resources)),
	}
	for i, raw := range m.Resources {
		var res serviceOrderModel
		if err := json.Unmarshal(raw, &res); err != nil {
			log.WithError(err).WithField("index", i).Warn("skipping undecodable service order")
			continue
		}
		page.Resources = append(page.Resources, toDomainOrder(res))
	}
	return page
}

const dateLayout = time.DateOnly

// placedAtLayouts are the date inputs that translate into a placed_at range,
// with the span each one covers. Month names match case-insensitively.
var placedAtLayouts = []struct {
	layout              string
	years, months, days int
}{
	{time.DateOnly, 0, 0, 1},
	{"Jan 2, 2006", 0, 0, 1},
	{"January 2, 2006", 0, 0, 1},
	{"2006-01", 0, 1, 0},
	{"Jan 2006", 0, 1, 0},
	{"January 2006", 0, 1, 0},
	{"2006", 1, 0, 0},
}

func placedAtRange(value string) (from, to time.Time, ok bool) {
	for _, l := range placedAtLayouts {
		if t, err := time.Parse(l.layout, value); err == nil {
			return t, t.AddDate(l.years, l.months, l.days), true
		}
	}
	return time.Time{}, time.Time{}, false
}

// toFilterExpressions renders filters in the collection filter syntax. Filters
// the service cannot express are returned as ignored.
func toFilterExpressions(baseFilter string, filters []order.Filter) (out []string, ignored []order.Filter) {
	if baseFilter = strings.TrimSpace(baseFilter); baseFilter != "" {
		out = append(out, baseFilter)
	}
	for _, f := range filters {
		value := strings.TrimSpace(f.Value)
		if value == "" {
			continue
		}
		switch f.ID {
		case "name":
			out = append(out, fmt.Sprintf("name='%%%s%%'", escapeQuotes(value)))
		case "id":
			out = append(out, fmt.Sprintf("id=%s", escapeQuotes(value)))
		case "placed_at":
			from, to, ok := placedAtRange(value)
			if !ok {
				ignored = append(ignored, f)
				continue
			}
			out = append(out,
				fmt.Sprintf("placed_at>=%s", from.Format(dateLayout)),
				fmt.Sprintf("placed_at<%s", to.Format(dateLayout)),
			)
		default:
			ignored = append(ignored, f)
		}
	}
	return out, ignored
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

func toActionRequest(action order.Action, ids []order.ID, reason string) actionRequestModel {
	req := actionRequestModel{
		Action:    action,
		Resources: make([]actionResourceModel, 0, len(ids)),
	}
	for _, id := range ids {
		req.Resources = append(req.Resources, actionResourceModel{ID: id, Reason: reason})
	}
	return req
}
