package seed

type fixtureUser struct {
	Username string
	Email    string
}

type fixturePost struct {
	Author   int // index into fixtureUsers
	Title    string
	Body     string
	Comments []string
}

var fixtureUsers = []fixtureUser{
	{Username: "John Doe", Email: "johndoe@example.com"},
	{Username: "Jane Doe", Email: "janedoe@example.com"},
}

// Every fixture comment is written by the first user.
var fixturePosts = []fixturePost{
	{
		Author: 0,
		Title:  "JavaScript",
		Body: "JavaScript, often abbreviated as JS, is a programming language that conforms to the ECMAScript specification. " +
			"JavaScript is high-level, often just-in-time compiled, and multi-paradigm. It has curly-bracket syntax, dynamic typing, " +
			"prototype-based object-orientation, and first-class functions.",
		Comments: []string{
			"Far far away, behind the word mountains, far from the countries Vokalia and Consonantia, there live the blind texts.",
			"The European languages are members of the same family. Their separate existence is a myth. For science, music, sport, etc.",
			"But I must explain to you how all this mistaken idea of denouncing pleasure and praising pain was born and I will give you a complete account of the system.",
		},
	},
	{
		Author: 0,
		Title:  "Node.js",
		Body: "Node.js is an open-source, cross-platform, JavaScript runtime environment that executes JavaScript code outside of a web browser. " +
			"Node.js lets developers use JavaScript to write command line tools and for server-side scripting, running scripts server-side " +
			"to produce dynamic web page content before the page is sent to the user's web browser.",
		Comments: []string{
			"Lights creepeth may. Fowl itself you're. Dry given moved man gathered moved replenish living. Likeness you'll to his can't every air fruit for, morning under they're.",
			"Perhaps a re-engineering of your current world view will re-energize your online nomenclature to enable a new holistic interactive enterprise internet communication solution.",
			"Fundamentally transforming well designed actionable information whose semantic content is virtually null.",
		},
	},
	{
		Author: 0,
		Title:  "Express.js",
		Body: "Express.js, or simply Express, is a web application framework for Node.js, released as free and open-source software under the MIT License. " +
			"It is designed for building web applications and APIs. It has been called the de facto standard server framework for Node.js.",
		Comments: []string{
			"Empowerment in information design literacy demands the immediate and complete disregard of the entire contents of this cyberspace communication.",
			"Doing business like this takes much more effort than doing your own business at home",
			"The Big Oxmox advised her not to do so, because there were thousands of bad Commas",
		},
	},
}
