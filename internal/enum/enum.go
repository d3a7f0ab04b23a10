// Package enum holds the integer codes persisted in the database.
package enum

type AppID int

const (
	AppExecutive AppID = iota + 1
	AppVendor
	AppOperator
	AppPublic
)

type AccountStatus int

const (
	AccountActive AccountStatus = iota + 1
	AccountSuspended
)

type GenderType int

const (
	GenderOther GenderType = iota + 1
	GenderFemale
	GenderMale
	GenderTransgender
)

type PlatformType int

const (
	PlatformOther PlatformType = iota + 1
	PlatformWeb
	PlatformNative
	PlatformServer
)

type LandmarkType int

const (
	LandmarkNotInUse LandmarkType = iota + 1
	LandmarkLocal
	LandmarkVillage
	LandmarkDistrict
	LandmarkState
	LandmarkNational
)

type BusinessStatus int

const (
	BusinessActive BusinessStatus = iota + 1
	BusinessSuspended
	BusinessBlocked
)

type BusinessType int

const (
	BusinessOther BusinessType = iota + 1
	BusinessOrganization
	BusinessIndividual
)

type CompanyStatus int

const (
	CompanyUnderVerification CompanyStatus = iota + 1
	CompanyVerified
	CompanySuspended
)

type CompanyType int

const (
	CompanyOther CompanyType = iota + 1
	CompanyPrivate
	CompanyGovernment
)

type FareScope int

const (
	FareGlobal FareScope = iota + 1
	FareLocal
)

type BankAccountType int

const (
	BankAccountOther BankAccountType = iota + 1
	BankAccountSavings
	BankAccountCurrent
	BankAccountSalary
)

type BusStatus int

const (
	BusActive BusStatus = iota + 1
	BusMaintenance
	BusSuspended
)

type TicketingMode int

const (
	TicketingHybrid TicketingMode = iota + 1
	TicketingDigital
	TicketingConventional
)

// Day follows the Monday-first numbering used by schedule.trigger_on.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

type TriggeringMode int

// Value 1 is unassigned.
const (
	TriggerAuto   TriggeringMode = 2
	TriggerManual TriggeringMode = 3
)

type ServiceStatus int

const (
	ServiceCreated ServiceStatus = iota + 1
	ServiceStarted
	ServiceTerminated
	ServiceEnded
	ServiceAudited
)

type DutyStatus int

const (
	DutyAssigned DutyStatus = iota + 1
	DutyStarted
	DutyTerminated
	DutyEnded
	DutyNotUsed
)

type RouteStatus int

const (
	RouteValid RouteStatus = iota + 1
	RouteInvalid
)
