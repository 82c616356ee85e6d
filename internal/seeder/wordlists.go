package seeder

var firstNames = []string{
	"Juan", "María", "Carlos", "Ana", "Luis", "Lucía", "Jorge", "Sofía", "Miguel", "Valeria",
	"José", "Camila", "Pedro", "Daniela", "Diego", "Gabriela", "Andrés", "Paula", "Ricardo", "Elena",
	"John", "Jane", "Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry",
}

var lastNames = []string{
	"García", "Rodríguez", "López", "Martínez", "González", "Pérez", "Sánchez", "Ramírez", "Torres", "Flores",
	"Rivera", "Gómez", "Díaz", "Vargas", "Castro", "Rojas", "Mendoza", "Chávez", "Herrera", "Morales",
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Miller", "Davis", "Wilson", "Moore", "Taylor",
}

var emailDomains = []string{
	"example.com", "example.org", "example.net", "correo.test", "mail.test", "empresa.test",
}

var streetNames = []string{
	"Los Olivos", "San Martín", "Bolívar", "Grau", "Arequipa", "Larco", "Primavera", "Las Flores",
	"Main", "Oak", "Pine", "Maple", "Cedar", "Elm", "Lake", "Hill",
}

var streetKinds = []string{"Av.", "Calle", "Jr.", "Pasaje", "Street", "Avenue"}

var cities = []string{
	"Lima", "Arequipa", "Cusco", "Trujillo", "Piura", "Bogotá", "Medellín", "Quito", "Santiago", "Buenos Aires",
	"Madrid", "Barcelona", "Ciudad de México", "Guadalajara", "Montevideo", "La Paz", "Springfield", "Austin", "Denver", "Boston",
}

var regions = []string{
	"Lima", "Arequipa", "Cusco", "La Libertad", "Piura", "Antioquia", "Pichincha", "Jalisco",
	"Andalucía", "Cataluña", "Texas", "California", "Ontario", "Bavaria",
}

var countries = []string{
	"Perú", "Colombia", "Ecuador", "Chile", "Argentina", "México", "España", "Uruguay", "Bolivia",
	"United States", "Canada", "Germany", "France", "Brazil",
}

var countryCodes2 = []string{"PE", "CO", "EC", "CL", "AR", "MX", "ES", "UY", "BO", "US", "CA", "DE", "FR", "BR"}

var countryCodes3 = []string{"PER", "COL", "ECU", "CHL", "ARG", "MEX", "ESP", "URY", "BOL", "USA", "CAN", "DEU", "FRA", "BRA"}

var companyWords = []string{
	"Andina", "Pacífico", "Global", "Norte", "Sur", "Delta", "Alfa", "Nova", "Prime", "Vértice",
	"Horizonte", "Cóndor", "Inca", "Atlas", "Orion", "Summit", "Vista", "Nexo",
}

var companySuffixes = []string{"S.A.", "S.A.C.", "S.R.L.", "Ltd.", "Inc.", "Group", "Corp."}

var jobTitles = []string{
	"Analista", "Gerente", "Contador", "Desarrollador", "Asistente", "Supervisor", "Vendedor",
	"Ingeniero", "Administrador", "Coordinador", "Developer", "Manager", "Accountant", "Designer",
}

var departments = []string{
	"Ventas", "Finanzas", "Logística", "Sistemas", "Recursos Humanos", "Marketing", "Operaciones",
	"Legal", "Compras", "Sales", "IT", "Support",
}

var statuses = []string{"ACTIVO", "INACTIVO", "PENDIENTE", "APROBADO", "RECHAZADO", "ANULADO"}

var genders = []string{"Masculino", "Femenino"}

var currencies = []string{"PEN", "USD", "EUR", "COP", "CLP", "MXN", "ARS"}

var auditUsers = []string{"admin", "system", "sysadmin", "batch", "etl", "operador"}

var productNouns = []string{
	"Producto", "Servicio", "Plan", "Paquete", "Módulo", "Kit", "Item", "Proyecto", "Curso", "Equipo",
}

var productAdjectives = []string{
	"Básico", "Estándar", "Premium", "Plus", "Pro", "Express", "Digital", "Anual", "Mensual", "Especial",
}

var loremWords = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit",
	"sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore", "et", "dolore",
	"magna", "aliqua", "enim", "ad", "minim", "veniam", "quis", "nostrud",
	"exercitation", "ullamco", "laboris", "nisi", "aliquip", "ex", "ea", "commodo",
	"consequat", "duis", "aute", "irure", "in", "reprehenderit", "voluptate",
	"velit", "esse", "cillum", "fugiat", "nulla", "pariatur", "excepteur", "sint",
	"occaecat", "cupidatat", "non", "proident", "sunt", "culpa", "qui", "officia",
	"deserunt", "mollit", "anim", "id", "est", "laborum",
}
