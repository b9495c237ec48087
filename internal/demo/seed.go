package demo

import (
	"time"

	contract "invitedesk/contracts/invites"
)

// timestampLayout matches the millisecond ISO form the real service sends.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func (b *Backend) seed(now time.Time) {
	at := func(d time.Duration) string { return now.Add(-d).Format(timestampLayout) }
	creator := b.cfg.AdminUsername

	b.invites = []contract.InviteCode{
		{Code: "demo-fresh-aaaaa", Available: 1, ForAccount: "admin", CreatedBy: creator, CreatedAt: at(2 * time.Hour), Uses: []contract.InviteUse{}},
		{Code: "demo-fresh-bbbbb", Available: 1, ForAccount: "admin", CreatedBy: creator, CreatedAt: at(5 * time.Hour), Uses: []contract.InviteUse{}},
		{Code: "demo-used-ccccc", Available: 0, ForAccount: "admin", CreatedBy: creator, CreatedAt: at(26 * time.Hour),
			Uses: []contract.InviteUse{{UsedBy: "did:plc:ewvi7nxzyoun6zhxrhs64oiz", UsedAt: at(20 * time.Hour)}}},
		{Code: "demo-used-ddddd", Available: 0, ForAccount: "admin", CreatedBy: creator, CreatedAt: at(50 * time.Hour),
			Uses: []contract.InviteUse{{UsedBy: "did:plc:z72i7hdynmk6r22z27h6tvur", UsedAt: at(49 * time.Hour)}}},
		{Code: "demo-used-eeeee", Available: 0, ForAccount: "admin", CreatedBy: creator, CreatedAt: at(72 * time.Hour),
			Uses: []contract.InviteUse{{UsedBy: "did:plc:nohandle7x2k4m5q6r7s8t9u", UsedAt: at(70 * time.Hour)}}},
		{Code: "demo-used-fffff", Available: 1, ForAccount: "admin", CreatedBy: creator, CreatedAt: at(96 * time.Hour),
			Uses: []contract.InviteUse{{UsedBy: "did:plc:unregistered0000000000000", UsedAt: at(95 * time.Hour)}}},
		{Code: "demo-off-ggggg", Available: 1, Disabled: true, ForAccount: "admin", CreatedBy: creator, CreatedAt: at(120 * time.Hour), Uses: []contract.InviteUse{}},
		{Code: "demo-off-hhhhh", Available: 0, Disabled: true, ForAccount: "admin", CreatedBy: creator, CreatedAt: at(200 * time.Hour),
			Uses: []contract.InviteUse{{UsedBy: "did:web:example.com", UsedAt: at(199 * time.Hour)}}},
		{Code: "demo-legacy-iiiii", Available: 1, ForAccount: "admin", CreatedBy: "import", CreatedAt: "", Uses: []contract.InviteUse{}},
		{Code: "demo-legacy-jjjjj", Available: 0, ForAccount: "admin", CreatedBy: "import", CreatedAt: "not a timestamp", Uses: []contract.InviteUse{}},
	}

	b.handles["did:plc:ewvi7nxzyoun6zhxrhs64oiz"] = "alice.northsky.social"
	b.handles["did:plc:z72i7hdynmk6r22z27h6tvur"] = "bob.example.com"
	b.handles["did:plc:nohandle7x2k4m5q6r7s8t9u"] = ""
	b.handles["did:web:example.com"] = "example.com"
}
