package pricing

import "pcshop_service/internal/domain/entities"

type CommandType string

const (
	CmdSelectRounding    CommandType = "select_rounding"
	CmdClearRounding     CommandType = "clear_rounding"
	CmdSetPaymentAmount  CommandType = "set_payment_amount"
	CmdSetVat            CommandType = "set_vat"
	CmdSetPaymentMethod  CommandType = "set_payment_method"
	CmdSetReleaseDate    CommandType = "set_release_date"
	CmdAddLineItem       CommandType = "add_line_item"
	CmdUpdateLineItem    CommandType = "update_line_item"
	CmdRemoveLineItem    CommandType = "remove_line_item"
	CmdImportLineItems   CommandType = "import_line_items"
	CmdAddServiceItem    CommandType = "add_service_item"
	CmdUpdateServiceItem CommandType = "update_service_item"
	CmdRemoveServiceItem CommandType = "remove_service_item"
	CmdSetCustomerInfo   CommandType = "set_customer_info"
	CmdSetDescription    CommandType = "set_description"
	CmdSetNotes          CommandType = "set_notes"
	CmdSetContractor     CommandType = "set_contractor"
)

// Command is one operator edit. Only the fields relevant to Type are read.
type Command struct {
	Type         CommandType            `json:"type" binding:"required"`
	Tier         entities.RoundingType  `json:"tier,omitempty"`
	Field        PaymentField           `json:"field,omitempty"`
	Value        int64                  `json:"value,omitempty"`
	IncludeVat   bool                   `json:"include_vat,omitempty"`
	VatRate      *int                   `json:"vat_rate,omitempty"`
	Method       entities.PaymentMethod `json:"method,omitempty"`
	Custom       string                 `json:"custom,omitempty"`
	Date         string                 `json:"date,omitempty"`
	Index        int                    `json:"index,omitempty"`
	LineItem     *entities.LineItem     `json:"line_item,omitempty"`
	ServiceItem  *entities.ServiceItem  `json:"service_item,omitempty"`
	Text         string                 `json:"text,omitempty"`
	CustomerInfo *entities.CustomerInfo `json:"customer_info,omitempty"`
	Flag         bool                   `json:"flag,omitempty"`
}

// Apply dispatches a command to the session.
func (s *EditSession) Apply(cmd Command) error {
	switch cmd.Type {
	case CmdSelectRounding:
		return s.SelectRounding(cmd.Tier)
	case CmdClearRounding:
		s.ClearRounding()
	case CmdSetPaymentAmount:
		return s.SetPaymentAmount(cmd.Field, cmd.Value)
	case CmdSetVat:
		return s.SetVat(cmd.IncludeVat, cmd.VatRate)
	case CmdSetPaymentMethod:
		return s.SetPaymentMethod(cmd.Method, cmd.Custom)
	case CmdSetReleaseDate:
		return s.SetReleaseDate(cmd.Date)
	case CmdAddLineItem:
		if cmd.LineItem == nil {
			return ErrMissingPayload
		}
		s.AddLineItem(*cmd.LineItem)
	case CmdUpdateLineItem:
		if cmd.LineItem == nil {
			return ErrMissingPayload
		}
		return s.UpdateLineItem(cmd.Index, *cmd.LineItem)
	case CmdRemoveLineItem:
		return s.RemoveLineItem(cmd.Index)
	case CmdImportLineItems:
		_, err := s.ImportLineItems(cmd.Text)
		return err
	case CmdAddServiceItem:
		if cmd.ServiceItem == nil {
			return ErrMissingPayload
		}
		return s.AddServiceItem(*cmd.ServiceItem)
	case CmdUpdateServiceItem:
		if cmd.ServiceItem == nil {
			return ErrMissingPayload
		}
		return s.UpdateServiceItem(cmd.Index, *cmd.ServiceItem)
	case CmdRemoveServiceItem:
		return s.RemoveServiceItem(cmd.Index)
	case CmdSetCustomerInfo:
		if cmd.CustomerInfo == nil {
			return ErrMissingPayload
		}
		s.SetCustomerInfo(*cmd.CustomerInfo)
	case CmdSetDescription:
		s.SetDescription(cmd.Text)
	case CmdSetNotes:
		s.SetNotes(cmd.Text)
	case CmdSetContractor:
		s.SetContractor(cmd.Flag)
	default:
		return ErrUnknownCommand
	}
	return nil
}
