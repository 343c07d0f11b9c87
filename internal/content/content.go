// Package content holds the copy shown on the portfolio. Everything here is
// plain data; the site and the terminal renderer decide how to draw it.
package content

type Link struct {
	Name string
	URL  string
}

type SkillGroup struct {
	Name   string
	Skills []string
}

// Project is a card on the page. Slug addresses its detail view; Details are
// the paragraphs shown only there.
type Project struct {
	Slug    string
	Title   string
	Summary string
	Stack   []string
	Link    string
	CTA     string
	Image   string
	Details []string
}

type Entry struct {
	Title   string
	Org     string
	Start   string
	End     string
	Logo    string
	Bullets []string
}

// Section is a page anchor in navigation order.
type Section struct {
	ID    string
	Title string
}

var Sections = []Section{
	{"hero", "Home"},
	{"about", "About"},
	{"skills", "Skills"},
	{"projects", "Projects"},
	{"experience", "Experience"},
	{"contact", "Contact"},
}

const (
	Name     = "Zach"
	Tagline  = "Building software that is useful and fun, from terminal tools to web services."
	Portrait = "/images/portrait.jpg"
)

// IntroItems are morphed one after another on the splash screen. The last one
// stays up until it fades.
var IntroItems = []string{
	"Terminal Tools",
	"Web Services",
	"Machine Learning",
	"Building Useful Software",
}

// HeroPhrases cycle in the hero heading.
var HeroPhrases = []string{
	"Hello!",
	"I'm Zach",
	"I Build Software",
}

var Roles = []string{
	"Go Developer",
	"TUI Enthusiast",
	"Web Developer",
	"Lifelong Learner",
}

var AboutMe = `I love building software that's both useful and fun, and I'm always curious about how things work behind the scenes.
Most of my projects start with a simple idea and turn into a chance to learn something new, whether it's exploring a
different language, experimenting with tools, or solving tricky problems.
When I'm not coding, you'll usually find me training Muay Thai, shooting pool with friends,
or chasing down a new challenge outside the screen.`

var Skills = []SkillGroup{
	{"Languages", []string{"Go", "Python", "JavaScript", "SQL"}},
	{"Web", []string{"Gin", "HTMX", "Tailwind CSS", "Alpine.js"}},
	{"Tooling", []string{"Git", "Docker", "Linux", "SQLite"}},
}

var Projects = []Project{
	{
		Slug:    "terminal-mail",
		Title:   "Terminal Mail",
		Summary: "A terminal-based email client built in Go with fuzzyfinder capabilities using the Charmbracelet TUI framework and go-imap.",
		Stack:   []string{"Go", "Bubble Tea", "go-imap"},
		Link:    "https://github.com/Zachkp",
		CTA:     "Code",
		Image:   "/images/projects/terminal-mail.png",
		Details: []string{
			"Reads and sends mail over IMAP and SMTP without leaving the terminal.",
			"A fuzzy finder jumps between folders and threads, and messages render as plain text with quoted replies folded.",
			"Credentials come from the system keyring rather than a config file.",
		},
	},
	{
		Slug:    "terminal-music",
		Title:   "Terminal Music",
		Summary: "A terminal-based music streaming application built in Go with an elegant TUI interface, leveraging yt-dlp and mpv for YouTube Music playback from the command line.",
		Stack:   []string{"Go", "yt-dlp", "mpv"},
		Link:    "https://github.com/Zachkp",
		CTA:     "Code",
		Image:   "/images/projects/terminal-music.png",
		Details: []string{
			"Searches YouTube Music through yt-dlp and streams audio to a background mpv process over its IPC socket.",
			"Keeps a play queue, shows progress and supports pause, seek and skip from the keyboard.",
		},
	},
	{
		Slug:    "game-recommender",
		Title:   "Game Recommender",
		Summary: "A machine learning web application that uses TF-IDF vectorization and cosine similarity to recommend games based on content analysis, with interactive visualizations and filtering by reviews and ratings.",
		Stack:   []string{"Python", "scikit-learn", "Flask"},
		Link:    "https://github.com/Zachkp",
		CTA:     "Code",
		Image:   "/images/projects/game-recommender.png",
		Details: []string{
			"Game descriptions and tags are vectorized with TF-IDF, and recommendations are the nearest titles by cosine similarity.",
			"Results can be filtered by review score and rating, and charts show how the picks relate to the seed game.",
		},
	},
	{
		Slug:    "portfolio",
		Title:   "Portfolio",
		Summary: "This site: Go, Gin and HTMX on the server, with every animation driven by a Go engine streaming frames to the page and the terminal.",
		Stack:   []string{"Go", "Gin", "HTMX", "tcell"},
		Link:    "https://github.com/Zachkp",
		CTA:     "Code",
		Image:   "/images/projects/portfolio.png",
		Details: []string{
			"The intro morph runs on the server and reaches the browser as server-sent events; the page only paints.",
			"The same engine drives a terminal version of the site built on tcell.",
			"Visitor stats are privacy-hashed and kept in SQLite, with a small admin dashboard behind a signed session.",
		},
	},
}

// ProjectBySlug finds the project a detail view was asked for.
func ProjectBySlug(slug string) (Project, bool) {
	for _, p := range Projects {
		if p.Slug == slug {
			return p, true
		}
	}
	return Project{}, false
}

var Work = []Entry{
	{
		Title: "Presentation Expert",
		Org:   "Target",
		Start: "Aug 2023",
		End:   "Present",
		Logo:  "images/TargetLogo.jpg",
		Bullets: []string{
			"Executed over 300 merchandising transitions on tight timelines by organizing team workflows and adapting quickly to changing priorities",
			"Boosted operational efficiency by managing backroom inventory processes and streamlining communication between floor and logistics teams",
			"Enhanced pricing and signage accuracy across departments by standardizing daily checks and collaborating cross-functionally",
		},
	},
	{
		Title: "Manager",
		Org:   "Jasons Catered Events",
		Start: "Aug 2016",
		End:   "Present",
		Logo:  "images/jasonsCateringLogo.png",
		Bullets: []string{
			"Improved client satisfaction by coordinating customized menus and ensuring all dietary requirements were accurately met",
			"Supported event technology by troubleshooting AV equipment and managing digital order tracking systems",
			"Maintained supply inventory and coordinated timely delivery between venues, optimizing resource allocation",
		},
	},
}

var Education = []Entry{
	{
		Title: "Bachelor of Computer Science",
		Org:   "Western Governors University",
		Start: "Sept 2019",
		End:   "May 2023",
		Logo:  "images/WGU-logo.png",
		Bullets: []string{
			"Graduated Magna Cum Laude with 3.8 GPA",
			"Relevant coursework: Data Structures, Algorithms, Web Development",
			"Senior project: Machine Learning recommendation system",
		},
	},
	{
		Title: "Project Management",
		Org:   "Comptia",
		Start: "July 2022",
		End:   "Present",
		Logo:  "images/comptiaCert.png",
		Bullets: []string{
			"Certified in agile project management methodology",
		},
	},
}

var Socials = []Link{
	{"GitHub", "https://github.com/Zachkp"},
}
