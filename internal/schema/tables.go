package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nixbug/entebus-server/internal/enum"
)

// Table is a single relation together with its secondary indexes.
type Table struct {
	Name    string
	Columns []string
	Indexes []string
}

const (
	createdOn = "created_on TIMESTAMPTZ NOT NULL DEFAULT now()"
	updatedOn = "updated_on TIMESTAMPTZ"
)

func fk(col, ref, onDelete string, notNull bool) string {
	nn := ""
	if notNull {
		nn = " NOT NULL"
	}
	return fmt.Sprintf("%s INTEGER%s REFERENCES %s (id) ON DELETE %s", col, nn, ref, onDelete)
}

func index(table string, cols ...string) string {
	name := "ix_" + table + "_" + strings.Join(cols, "_")
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", name, table, join(cols))
}

func indexUsing(name, table, method, col string) string {
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s USING %s (%s)", name, table, method, col)
}

func unique(cols ...string) string {
	return "UNIQUE (" + join(cols) + ")"
}

func join(cols []string) string {
	return strings.Join(cols, ", ")
}

func def[T ~int](v T) string {
	return strconv.Itoa(int(v))
}

func accountTable(name, owner string) Table {
	cols := []string{"id SERIAL PRIMARY KEY"}
	if owner != "" {
		cols = append(cols, fk(owner+"_id", owner, "CASCADE", true))
	}
	cols = append(cols,
		"username VARCHAR(32) NOT NULL",
		"password TEXT NOT NULL",
		"gender INTEGER NOT NULL DEFAULT "+def(enum.GenderOther),
		"full_name TEXT",
	)
	if owner == "" {
		cols = append(cols, "designation TEXT")
	}
	cols = append(cols,
		"status INTEGER NOT NULL DEFAULT "+def(enum.AccountActive),
		"phone_number TEXT",
		"email_id TEXT",
		createdOn,
		updatedOn,
	)

	t := Table{Name: name}
	if owner == "" {
		cols[1] += " UNIQUE"
	} else {
		cols = append(cols, unique("username", owner+"_id"))
		t.Indexes = []string{index(name, owner+"_id")}
	}
	t.Columns = cols
	return t
}

func roleTable(name, owner string) Table {
	cols := []string{"id SERIAL PRIMARY KEY"}
	var idx []string
	nameCol := "name VARCHAR(32) NOT NULL"
	if owner == "" {
		nameCol += " UNIQUE"
	} else {
		cols = append(cols, fk(owner+"_id", owner, "CASCADE", true))
		idx = append(idx, index(name, owner+"_id"))
	}
	cols = append(cols,
		nameCol,
		"permissions VARCHAR[] NOT NULL DEFAULT '{}'",
		createdOn,
		updatedOn,
	)
	if owner != "" {
		cols = append(cols, unique("name", owner+"_id"))
	}
	idx = append(idx, indexUsing("ix_"+name+"_permissions_gin", name, "gin", "permissions"))
	return Table{Name: name, Columns: cols, Indexes: idx}
}

func roleMapTable(name, owner, role, account string) Table {
	cols := []string{"id SERIAL PRIMARY KEY"}
	var keys []string
	if owner != "" {
		keys = append(keys, owner+"_id")
		cols = append(cols, fk(owner+"_id", owner, "CASCADE", true))
	}
	keys = append(keys, "role_id", account+"_id")
	cols = append(cols,
		fk("role_id", role, "CASCADE", true),
		fk(account+"_id", account, "CASCADE", true),
		createdOn,
		updatedOn,
		unique(keys...),
	)
	idx := make([]string, 0, len(keys))
	for _, k := range keys {
		idx = append(idx, index(name, k))
	}
	return Table{Name: name, Columns: cols, Indexes: idx}
}

func tokenTable(name, owner, account string) Table {
	cols := []string{"id SERIAL PRIMARY KEY"}
	var idx []string
	if owner != "" {
		cols = append(cols, fk(owner+"_id", owner, "CASCADE", true))
		idx = append(idx, index(name, owner+"_id"))
	}
	cols = append(cols,
		fk(account+"_id", account, "CASCADE", true),
		"access_token VARCHAR(64) NOT NULL UNIQUE",
		"expires_in INTEGER NOT NULL",
		"expires_at TIMESTAMPTZ NOT NULL",
		"platform_type INTEGER NOT NULL DEFAULT "+def(enum.PlatformOther),
		"client_details TEXT",
		createdOn,
		updatedOn,
	)
	idx = append(idx, index(name, account+"_id"))
	return Table{Name: name, Columns: cols, Indexes: idx}
}

func imageTable(name, owner string) Table {
	return Table{
		Name: name,
		Columns: []string{
			"id SERIAL PRIMARY KEY",
			fk(owner+"_id", owner, "CASCADE", true) + " UNIQUE",
			"file_name VARCHAR(128) NOT NULL",
			"file_size INTEGER NOT NULL",
			"file_type VARCHAR(128) NOT NULL",
			createdOn,
		},
	}
}

func walletLinkTable(name, owner string) Table {
	return Table{
		Name: name,
		Columns: []string{
			"id SERIAL PRIMARY KEY",
			fk("wallet_id", "wallet", "CASCADE", true),
			fk(owner+"_id", owner, "CASCADE", true) + " UNIQUE",
			createdOn,
			updatedOn,
		},
	}
}

func organizationTable(name, status, typ string) Table {
	return Table{
		Name: name,
		Columns: []string{
			"id SERIAL PRIMARY KEY",
			"name VARCHAR(32) NOT NULL UNIQUE",
			"status INTEGER NOT NULL DEFAULT " + status,
			"type INTEGER NOT NULL DEFAULT " + typ,
			"address TEXT NOT NULL",
			"contact_person TEXT NOT NULL",
			"phone_number TEXT NOT NULL",
			"email_id TEXT NOT NULL",
			"location geometry(POINT, 4326) NOT NULL",
			createdOn,
			updatedOn,
		},
		Indexes: []string{indexUsing("ix_"+name+"_location_gist", name, "gist", "location")},
	}
}

func ticketTable(name string, withDuty bool) Table {
	cols := []string{
		"id BIGSERIAL PRIMARY KEY",
		fk("company_id", "company", "CASCADE", true),
		fk("service_id", "service", "CASCADE", true),
	}
	idx := []string{index(name, "company_id"), index(name, "service_id")}
	if withDuty {
		cols = append(cols, fk("duty_id", "duty", "RESTRICT", true))
		idx = append(idx, index(name, "duty_id"))
	}
	cols = append(cols,
		"sequence_id INTEGER NOT NULL",
		"ticket_types JSONB NOT NULL",
		fk("pickup_point", "landmark", "RESTRICT", true),
		fk("dropping_point", "landmark", "RESTRICT", true),
		"extra JSONB NOT NULL",
		"distance INTEGER NOT NULL",
		"amount NUMERIC(10, 2) NOT NULL",
		createdOn,
	)
	if withDuty {
		cols = append(cols, unique("service_id", "duty_id", "sequence_id"))
	}
	return Table{Name: name, Columns: cols, Indexes: idx}
}

// Tables returns every table in creation order: a table only references
// tables that precede it.
func Tables() []Table {
	return []Table{
		{
			Name: "landmark",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				"is_use BOOLEAN NOT NULL DEFAULT true",
				"name VARCHAR(32) NOT NULL",
				"alias_names VARCHAR(32)[]",
				"boundary geometry(POLYGON, 4326) NOT NULL",
				"type INTEGER NOT NULL DEFAULT " + def(enum.LandmarkLocal),
				createdOn,
				updatedOn,
			},
			Indexes: []string{
				index("landmark", "name"),
				index("landmark", "type"),
				indexUsing("ix_landmark_alias_names_gin", "landmark", "gin", "alias_names"),
				indexUsing("ix_landmark_boundary_gist", "landmark", "gist", "boundary"),
			},
		},
		{
			Name: "bus_stop",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				"name TEXT NOT NULL",
				fk("landmark_id", "landmark", "CASCADE", true),
				"location geometry(POINT, 4326) NOT NULL",
				createdOn,
				updatedOn,
				unique("location", "landmark_id"),
			},
			Indexes: []string{index("bus_stop", "landmark_id")},
		},
		{
			Name: "wallet",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				"name TEXT NOT NULL",
				"balance NUMERIC(10, 2) NOT NULL DEFAULT 0",
				createdOn,
				updatedOn,
			},
		},
		{
			Name: "bank_account",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				"bank_name TEXT NOT NULL",
				"branch_name TEXT",
				"account_number TEXT NOT NULL",
				"holder_name TEXT NOT NULL",
				"ifsc TEXT NOT NULL",
				"account_type INTEGER NOT NULL DEFAULT " + def(enum.BankAccountOther),
				createdOn,
				updatedOn,
			},
		},
		{
			Name: "global_fare",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				"version INTEGER NOT NULL DEFAULT 1",
				"name VARCHAR(32) NOT NULL UNIQUE",
				"attributes JSONB NOT NULL",
				"function TEXT NOT NULL",
				createdOn,
				updatedOn,
			},
		},

		accountTable("executive", ""),
		roleTable("executive_role", ""),
		roleMapTable("executive_role_map", "", "executive_role", "executive"),
		tokenTable("executive_token", "", "executive"),
		imageTable("executive_image", "executive"),

		organizationTable("business", def(enum.BusinessActive), def(enum.BusinessOther)),
		imageTable("business_image", "business"),
		walletLinkTable("business_wallet", "business"),
		accountTable("vendor", "business"),
		roleTable("vendor_role", "business"),
		roleMapTable("vendor_role_map", "business", "vendor_role", "vendor"),
		tokenTable("vendor_token", "business", "vendor"),
		imageTable("vendor_image", "vendor"),

		organizationTable("company", def(enum.CompanyUnderVerification), def(enum.CompanyOther)),
		imageTable("company_image", "company"),
		walletLinkTable("company_wallet", "company"),
		accountTable("operator", "company"),
		roleTable("operator_role", "company"),
		roleMapTable("operator_role_map", "company", "operator_role", "operator"),
		tokenTable("operator_token", "company", "operator"),
		imageTable("operator_image", "operator"),

		{
			Name: "local_fare",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				fk("company_id", "company", "CASCADE", true),
				fk("global_fare_id", "global_fare", "SET NULL", false),
				"name VARCHAR(32) NOT NULL UNIQUE",
				"attributes JSONB NOT NULL",
				"function TEXT NOT NULL",
				createdOn,
				updatedOn,
				unique("name", "company_id"),
			},
			Indexes: []string{index("local_fare", "company_id"), index("local_fare", "global_fare_id")},
		},
		{
			Name: "route",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				fk("company_id", "company", "CASCADE", true),
				"name VARCHAR(256) NOT NULL",
				"attributes JSONB NOT NULL",
				"status INTEGER NOT NULL DEFAULT " + def(enum.RouteInvalid),
				createdOn,
				updatedOn,
				unique("name", "company_id"),
			},
			Indexes: []string{index("route", "company_id")},
		},
		{
			Name: "landmark_in_route",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				fk("company_id", "company", "CASCADE", true),
				fk("route_id", "route", "CASCADE", true),
				fk("landmark_id", "landmark", "RESTRICT", true),
				"distance_from_start INTEGER NOT NULL",
				"arrival_delta INTEGER NOT NULL",
				"departure_delta INTEGER NOT NULL",
				createdOn,
				updatedOn,
				unique("route_id", "distance_from_start"),
			},
			Indexes: []string{index("landmark_in_route", "company_id"), index("landmark_in_route", "route_id")},
		},
		{
			Name: "bus",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				fk("company_id", "company", "CASCADE", true),
				"registration_number VARCHAR(16) NOT NULL",
				"name VARCHAR(32) NOT NULL",
				"capacity INTEGER NOT NULL",
				"manufactured_on TIMESTAMPTZ NOT NULL",
				"insurance_upto TIMESTAMPTZ",
				"pollution_upto TIMESTAMPTZ",
				"fitness_upto TIMESTAMPTZ",
				"road_tax_upto TIMESTAMPTZ",
				"status INTEGER NOT NULL DEFAULT " + def(enum.BusActive),
				createdOn,
				updatedOn,
				unique("registration_number", "company_id"),
			},
			Indexes: []string{
				index("bus", "company_id"),
				index("bus", "registration_number"),
				index("bus", "name"),
			},
		},
		{
			Name: "bus_image",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				fk("bus_id", "bus", "CASCADE", true),
				"file_name VARCHAR(128) NOT NULL",
				"file_size INTEGER NOT NULL",
				"file_type VARCHAR(128) NOT NULL",
				createdOn,
			},
			Indexes: []string{index("bus_image", "bus_id")},
		},
		{
			Name: "schedule",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				"name VARCHAR(32) NOT NULL",
				fk("company_id", "company", "CASCADE", true),
				"ticketing_mode INTEGER NOT NULL DEFAULT " + def(enum.TicketingHybrid),
				"start_time TIMETZ NOT NULL",
				fk("bus_id", "bus", "SET NULL", false),
				fk("route_id", "route", "SET NULL", false),
				fk("fare_id", "local_fare", "SET NULL", false),
				"trigger_on INTEGER[]",
				"trigger_mode INTEGER NOT NULL DEFAULT " + def(enum.TriggerAuto),
				"trigger_at TIMETZ NOT NULL",
				"trigger_from TIMESTAMPTZ",
				"trigger_till TIMESTAMPTZ",
				createdOn,
				updatedOn,
			},
			Indexes: []string{index("schedule", "name"), index("schedule", "company_id")},
		},
		{
			Name: "service",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				fk("company_id", "company", "CASCADE", true),
				"name VARCHAR(128) NOT NULL",
				fk("route", "route", "RESTRICT", false),
				fk("fare", "local_fare", "RESTRICT", false),
				fk("bus_id", "bus", "RESTRICT", false),
				"ticket_mode INTEGER NOT NULL DEFAULT " + def(enum.TicketingHybrid),
				"status INTEGER NOT NULL DEFAULT " + def(enum.ServiceCreated),
				"starting_at TIMESTAMPTZ NOT NULL",
				"ending_at TIMESTAMPTZ NOT NULL",
				"private_key TEXT NOT NULL",
				"public_key TEXT NOT NULL",
				"remark TEXT",
				"started_on TIMESTAMPTZ",
				"finished_on TIMESTAMPTZ",
				"bus_snapshot JSONB NOT NULL",
				"route_snapshot JSONB NOT NULL",
				"fare_snapshot JSONB NOT NULL",
				createdOn,
				updatedOn,
			},
			Indexes: []string{index("service", "company_id")},
		},
		{
			Name: "service_trace",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				fk("service_id", "service", "CASCADE", true) + " UNIQUE",
				fk("landmark_id", "landmark", "CASCADE", true),
				"location geometry(POINT, 4326)",
				"accuracy NUMERIC(10, 2)",
				createdOn,
				updatedOn,
			},
		},
		{
			Name: "duty",
			Columns: []string{
				"id SERIAL PRIMARY KEY",
				fk("company_id", "company", "CASCADE", true),
				fk("operator_id", "operator", "SET NULL", false),
				fk("service_id", "service", "CASCADE", true),
				"passcode VARCHAR(32) NOT NULL",
				"status INTEGER NOT NULL DEFAULT " + def(enum.DutyAssigned),
				"started_on TIMESTAMPTZ",
				"finished_on TIMESTAMPTZ",
				"collection NUMERIC(10, 2)",
				createdOn,
				updatedOn,
			},
			Indexes: []string{index("duty", "company_id"), index("duty", "service_id")},
		},
		ticketTable("paper_ticket", true),
		ticketTable("digital_ticket", false),
	}
}
