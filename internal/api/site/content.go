package siteapi

import "strings"

type member struct {
	Name string
	Role string
}

type contact struct {
	Label string
	Value string
	Href  string
	Lines []string
}

var introKo = []string{
	"간판집은 영상, 브랜딩, 그래픽 등 다양한 시각 매체를 넘나들며 새로운 가능성을 탐구하는 디자인 스튜디오입니다. 우리는 클라이언트의 본질을 깊이 이해하는 것에서 출발해, 기획부터 제작까지 전 과정을 함께하며 전략적이고 감각적인 해결책을 제안합니다.",
	"우리에겐 디자인이 곧 브랜드의 ‘간판’입니다. 간판은 가장 먼저 눈에 띄고, 가장 오래 기억되는 언어이기에, 우리는 클라이언트의 가장 적확한 간판을 함께 만들어갑니다.",
}

var introEn = []string{
	"Ganpanjip is a design studio that explores new possibilities across video, branding, and graphic media.",
	"The name Ganpanjip literally means “Sign House” in Korean, reflecting our belief that design itself is a brand’s signboard. We begin with a deep understanding of our clients and collaborate through every stage from concept to production.",
	"A signboard is what captures attention first and stays in memory the longest. Ganpanjip creates the most precise and resonant signboard for each client.",
}

var services = []string{
	"3D / 2D Motion Graphics",
	"Creative Direction & Storyboarding",
	"Video Editing & Compositing",
	"3D Modeling",
	"Branding & Logo Design",
	"Digital Content, Print Design",
	"Graphic Design",
}

var members = []member{
	{Name: "박승원 Park Seung Won", Role: "Designer"},
	{Name: "유현지 Yu Hyeon Ji", Role: "Designer"},
}

var contacts = []contact{
	newContact("Mail", "ganpanjip@gmail.com", "mailto:ganpanjip@gmail.com"),
	newContact("Tell", "+82(0)10-6692-5817  OR  +82(0)10-7136-7430", ""),
	newContact("Instagram", "@ganpanjip_", "https://www.instagram.com/ganpanjip_"),
	newContact("Address", "서울시 동작구 사당로14길 10 지하1층\nB1, 10, Sadang-ro 14-gil, Dongjak-gu, Seoul,\nRepublic of Korea", ""),
}

// multi-line values render one paragraph per line
func newContact(label, value, href string) contact {
	return contact{Label: label, Value: value, Href: href, Lines: strings.Split(value, "\n")}
}
