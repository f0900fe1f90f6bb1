package contract

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusSigned    Status = "signed"
	StatusCompleted Status = "completed"
)

type WageType string

const (
	WageHourly  WageType = "hourly"
	WageMonthly WageType = "monthly"
)

type BusinessSize string

const (
	BusinessUnder5 BusinessSize = "under5"
	BusinessOver5  BusinessSize = "over5"
)

type PaymentMonth string

const (
	PaymentCurrentMonth PaymentMonth = "current"
	PaymentNextMonth    PaymentMonth = "next"
)

type Party string

const (
	PartyEmployer Party = "employer"
	PartyWorker   Party = "worker"
)

type FolderColor string

const (
	ColorGray   FolderColor = "gray"
	ColorBlue   FolderColor = "blue"
	ColorGreen  FolderColor = "green"
	ColorYellow FolderColor = "yellow"
	ColorPurple FolderColor = "purple"
	ColorRed    FolderColor = "red"
)

const (
	MaxFolderNameLength = 50
	MaxPaymentDay       = 31

	// AllContractsLabel names the unfiled destination of a bulk move.
	AllContractsLabel = "All contracts"
)

// WeekDays lists the weekday symbols in display order, Monday first.
var WeekDays = []string{"월", "화", "수", "목", "금", "토", "일"}

var (
	statusValues       = []string{string(StatusDraft), string(StatusPending), string(StatusSigned), string(StatusCompleted)}
	wageTypeValues     = []string{string(WageHourly), string(WageMonthly)}
	businessSizeValues = []string{string(BusinessUnder5), string(BusinessOver5)}
	paymentMonthValues = []string{string(PaymentCurrentMonth), string(PaymentNextMonth)}
	partyValues        = []string{string(PartyEmployer), string(PartyWorker)}
	folderColorValues  = []string{
		string(ColorGray), string(ColorBlue), string(ColorGreen),
		string(ColorYellow), string(ColorPurple), string(ColorRed),
	}
)

const (
	actionCreate       = "contract.create"
	actionUpdate       = "contract.update"
	actionShare        = "contract.share"
	actionSign         = "contract.sign"
	actionStatus       = "contract.status"
	actionBulkDelete   = "contract.bulk_delete"
	actionBulkMove     = "contract.bulk_move"
	actionFolderCreate = "folder.create"
	actionFolderUpdate = "folder.update"
	actionFolderDelete = "folder.delete"
)
