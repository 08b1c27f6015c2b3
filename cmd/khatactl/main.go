// Command khatactl tareas de mantenimiento de Swarna Khata: migraciones, auditoría de facturas,
// purga de la papelera y avisos de suscripciones por vencer.
package main

func main() {
	Execute()
}
