// pkg/catalog/sample.go
package catalog

// Sample returns the built-in catalog of fifteen sample postings.
func Sample() *Catalog {
	return &Catalog{
		Version: CurrentVersion,
		Jobs: []Entry{
			{
				Title:          "Software Development Engineer",
				Company:        "InfoTech India",
				Location:       "Bengaluru, India",
				Description:    "Join our core engineering team to build scalable backend services using Java and Spring Boot in a cloud environment.",
				Skills:         []string{"java", "spring boot", "microservices", "aws", "sql"},
				EmploymentType: "Full-time",
			},
			{
				Title:          "Data Scientist",
				Company:        "Analytics Hub",
				Location:       "Hyderabad, India",
				Description:    "Leverage machine learning techniques to extract insights from large datasets. Strong Python and ML framework experience needed.",
				Skills:         []string{"python", "machine learning", "tensorflow", "pandas", "sql", "data visualization"},
				EmploymentType: "Full-time",
			},
			{
				Title:          "QA Automation Engineer",
				Company:        "Quality Systems Pvt. Ltd.",
				Location:       "Pune, India",
				Description:    "Develop and maintain automated test suites for web applications using Selenium and Java/Python.",
				Skills:         []string{"selenium", "java", "python", "testng", "jira", "api testing"},
				EmploymentType: "Full-time",
			},
			{
				Title:          "Cloud DevOps Engineer",
				Company:        "Cloudify Solutions",
				Location:       "Chennai, India",
				Description:    "Implement and manage CI/CD pipelines, infrastructure as code (IaC), and monitoring solutions on AWS/Azure.",
				Skills:         []string{"aws", "azure", "docker", "kubernetes", "terraform", "jenkins", "linux", "scripting"},
				EmploymentType: "Full-time",
			},
			{
				Title:          "Senior Product Manager",
				Company:        "Innovate India",
				Location:       "Mumbai, India",
				Description:    "Define product strategy, roadmap, and feature requirements for our B2B SaaS platform. Work closely with engineering and marketing teams.",
				Skills:         []string{"product management", "agile", "market research", "jira", "saas"},
				EmploymentType: "Full-time",
			},
			{
				Title:          "Business Analyst",
				Company:        "Fintech Solutions",
				Location:       "Gurgaon, India",
				Description:    "Gather and document business requirements, perform gap analysis, and work with development teams to deliver financial software solutions.",
				Skills:         []string{"business analysis", "requirements gathering", "sql", "excel", "fintech"},
				EmploymentType: "Full-time",
			},
			{
				Title:          "React Native Developer",
				Company:        "MobileFirst Labs",
				Location:       "Noida, India",
				Description:    "Build cross-platform mobile applications using React Native. Experience with native modules is a plus.",
				Skills:         []string{"react native", "javascript", "redux", "ios", "android", "rest api"},
				EmploymentType: "Contract",
			},
			{
				Title:          "Technical Writer (Remote)",
				Company:        "DocuTech Services",
				Location:       "Remote, India",
				Description:    "Create clear and concise technical documentation, including API guides, user manuals, and knowledge base articles.",
				Skills:         []string{"technical writing", "api documentation", "markdown", "git"},
				EmploymentType: "Part-time",
			},
			{
				Title:          "Database Administrator (DBA)",
				Company:        "DataSecure India",
				Location:       "Bengaluru, India",
				Description:    "Manage, monitor, and maintain performance of PostgreSQL and MySQL databases in production environments.",
				Skills:         []string{"postgresql", "mysql", "database administration", "sql tuning", "backup", "linux"},
				EmploymentType: "Full-time",
			},
			{
				Title:          "Network Engineer",
				Company:        "ConnectNet India",
				Location:       "Chennai, India",
				Description:    "Design, implement, and troubleshoot enterprise network infrastructure including routers, switches, and firewalls (Cisco/Juniper).",
				Skills:         []string{"networking", "cisco ios", "junos", "tcp/ip", "routing", "switching", "firewalls"},
				EmploymentType: "Full-time",
			},
			{
				Title:          "AI Engineer",
				Company:        "FutureAI Solutions",
				Location:       "Bengaluru, India",
				Description:    "Develop and deploy cutting-edge AI models for NLP and computer vision tasks in a fast-paced startup environment.",
				Skills:         []string{"python", "pytorch", "tensorflow", "nlp", "computer vision", "aws", "docker"},
				EmploymentType: "Full-time",
			},
			{
				Title:          "Bioinformatics Scientist",
				Company:        "GeneTech Labs",
				Location:       "Hyderabad, India",
				Description:    "Analyze genomic and proteomic data using computational methods. PhD or relevant Masters experience required.",
				Skills:         []string{"python", "r", "biopython", "nextflow", "snakemake", "genomics", "statistics", "linux"},
				EmploymentType: "Full-time",
			},
			{
				Title:          "Fintech Business Analyst",
				Company:        "Mumbai Finance Hub",
				Location:       "Mumbai, India",
				Description:    "Bridge the gap between business needs and technical solutions in the rapidly evolving fintech space focusing on lending platforms.",
				Skills:         []string{"business analysis", "fintech", "sql", "requirements gathering", "agile", "payments", "lending"},
				EmploymentType: "Full-time",
			},
			{
				Title:          "Embedded Software Engineer C++",
				Company:        "AutoSystems Pune",
				Location:       "Pune, India",
				Description:    "Design and develop firmware for automotive embedded control units (ECUs) using modern C++ standards.",
				Skills:         []string{"c++", "c", "embedded systems", "rtos", "can bus", "automotive", "linux kernel"},
				EmploymentType: "Full-time",
			},
			{
				Title:          "MERN Stack Developer",
				Company:        "Kolkata Web Works",
				Location:       "Kolkata, India",
				Description:    "Build and maintain modern, responsive web applications using the MERN stack (MongoDB, Express, React, Node.js).",
				Skills:         []string{"mongodb", "express", "react", "node.js", "javascript", "rest api", "html", "css"},
				EmploymentType: "Contract",
			},
		},
	}
}
