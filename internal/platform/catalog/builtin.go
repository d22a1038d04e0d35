package catalog

import (
	"github.com/ehr/practice/internal/platform/query"
	"github.com/ehr/practice/internal/platform/querysql"
)

// Builtin returns the entities served when no catalog file is configured.
func Builtin() []Definition {
	return []Definition{
		{
			Name: "patients",
			Table: querysql.Table{
				Name:       "patients",
				PrimaryKey: "id",
				Columns: []string{
					"id", "first_name", "last_name", "email", "phone", "gender",
					"birth_date", "city", "is_active", "created_at", "updated_at",
				},
			},
			Schema: query.Schema{
				SearchFields: []string{"first_name", "last_name", "email", "phone"},
				Filterable: map[string]query.Field{
					"id":         {Type: query.FieldUUID},
					"first_name": {Type: query.FieldString},
					"last_name":  {Type: query.FieldString},
					"email":      {Type: query.FieldString},
					"city":       {Type: query.FieldString},
					"gender":     {Type: query.FieldEnum, EnumValues: []string{"MALE", "FEMALE", "OTHER", "UNKNOWN"}},
					"birth_date": {Type: query.FieldDate},
					"is_active":  {Type: query.FieldBoolean},
					"created_at": {Type: query.FieldDate},
				},
				Sortable:    []string{"first_name", "last_name", "birth_date", "created_at"},
				DefaultSort: query.Sort{Field: "created_at", Direction: query.Desc},
				MaxLimit:    100,
			},
		},
		{
			Name: "visits",
			Table: querysql.Table{
				Name:       "visits",
				PrimaryKey: "id",
				Columns: []string{
					"id", "patient_id", "practitioner_id", "status", "reason",
					"scheduled_at", "duration_minutes", "cancelled_at", "created_at",
				},
			},
			Schema: query.Schema{
				SearchFields: []string{"reason"},
				Filterable: map[string]query.Field{
					"id":               {Type: query.FieldUUID},
					"patient_id":       {Type: query.FieldUUID},
					"practitioner_id":  {Type: query.FieldUUID},
					"status":           {Type: query.FieldEnum, EnumValues: []string{"SCHEDULED", "CHECKED_IN", "COMPLETED", "CANCELLED", "NO_SHOW"}},
					"scheduled_at":     {Type: query.FieldDate},
					"duration_minutes": {Type: query.FieldInteger},
					"cancelled_at":     {Type: query.FieldDate},
				},
				Sortable:    []string{"scheduled_at", "status", "created_at"},
				DefaultSort: query.Sort{Field: "scheduled_at", Direction: query.Desc},
				MaxLimit:    100,
			},
		},
		{
			Name: "invoices",
			Table: querysql.Table{
				Name:       "invoices",
				PrimaryKey: "id",
				Columns: []string{
					"id", "number", "patient_id", "status", "total", "balance",
					"issued_at", "due_at", "paid_at", "created_at",
				},
			},
			Schema: query.Schema{
				SearchFields: []string{"number"},
				Filterable: map[string]query.Field{
					"id":         {Type: query.FieldUUID},
					"patient_id": {Type: query.FieldUUID},
					"status":     {Type: query.FieldEnum, EnumValues: []string{"DRAFT", "ISSUED", "PAID", "VOID", "OVERDUE"}},
					"total":      {Type: query.FieldFloat},
					"balance":    {Type: query.FieldFloat},
					"issued_at":  {Type: query.FieldDate},
					"due_at":     {Type: query.FieldDate},
					"paid_at":    {Type: query.FieldDate},
				},
				Sortable:    []string{"number", "total", "issued_at", "due_at", "created_at"},
				DefaultSort: query.Sort{Field: "issued_at", Direction: query.Desc},
				MaxLimit:    200,
			},
		},
		{
			Name: "messages",
			Table: querysql.Table{
				Name:       "messages",
				PrimaryKey: "id",
				Columns: []string{
					"id", "patient_id", "channel", "subject", "body", "is_read",
					"sent_at", "created_at",
				},
			},
			Schema: query.Schema{
				SearchFields: []string{"subject", "body"},
				Filterable: map[string]query.Field{
					"id":         {Type: query.FieldUUID},
					"patient_id": {Type: query.FieldUUID},
					"channel":    {Type: query.FieldEnum, EnumValues: []string{"EMAIL", "SMS", "PORTAL"}},
					"is_read":    {Type: query.FieldBoolean},
					"sent_at":    {Type: query.FieldDate},
				},
				Sortable:     []string{"sent_at", "created_at"},
				DefaultSort:  query.Sort{Field: "sent_at", Direction: query.Desc},
				DefaultLimit: 20,
				MaxLimit:     100,
			},
		},
		{
			Name: "email_templates",
			Table: querysql.Table{
				Name:       "email_templates",
				PrimaryKey: "id",
				Columns:    []string{"id", "name", "subject", "locale", "is_active", "updated_at"},
			},
			Schema: query.Schema{
				SearchFields: []string{"name", "subject"},
				Filterable: map[string]query.Field{
					"id":        {Type: query.FieldUUID},
					"name":      {Type: query.FieldString},
					"locale":    {Type: query.FieldString},
					"is_active": {Type: query.FieldBoolean},
				},
				Sortable:    []string{"name", "updated_at"},
				DefaultSort: query.Sort{Field: "name", Direction: query.Asc},
				MaxLimit:    50,
			},
		},
	}
}
