package contract

import "github.com/KeyCoreSH/extractbrowser/constants"

// Schema helpers. Every leaf admits null because the model is instructed to
// emit null for fields it cannot find; required-ness is scored downstream,
// not enforced here.

func strProp() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func intProp() map[string]any {
	return map[string]any{"type": []string{"integer", "null"}}
}

func numProp() map[string]any {
	return map[string]any{"type": []string{"number", "string", "null"}}
}

func objProp(props map[string]any) map[string]any {
	return map[string]any{
		"type":                 []string{"object", "null"},
		"properties":           props,
		"additionalProperties": false,
	}
}

func arrProp(items map[string]any) map[string]any {
	return map[string]any{
		"type":  []string{"array", "null"},
		"items": items,
	}
}

func rootSchema(props map[string]any) map[string]any {
	// The model may volunteer a top-level confidence; tolerated here,
	// stripped by Conform.
	props["confidence"] = map[string]any{"type": []string{"number", "null"}, "minimum": 0.0, "maximum": 1.0}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

func addressProps() map[string]any {
	return map[string]any{
		"logradouro":  strProp(),
		"numero":      strProp(),
		"complemento": strProp(),
		"bairro":      strProp(),
		"cidade":      strProp(),
		"uf":          strProp(),
		"estado":      strProp(),
		"cep":         strProp(),
	}
}

func anttContract() *FieldContract {
	return &FieldContract{
		Type:    constants.ANTT,
		Version: "2024-06",
		Fields: []string{
			"tipo_documento", "transportador", "endereco",
			"resumo_frota", "responsavel_tecnico", "veiculos",
		},
		Required: []string{
			"transportador.rntrc",
			"transportador.razao_social_nome",
		},
		Schema: rootSchema(map[string]any{
			"tipo_documento": strProp(),
			"transportador": objProp(map[string]any{
				"rntrc":             strProp(),
				"razao_social_nome": strProp(),
				"cpf_cnpj":          strProp(),
				"situacao_rntrc":    strProp(),
				"categoria":         strProp(),
				"data_cadastro":     strProp(),
				"data_validade":     strProp(),
				"data_emissao":      strProp(),
			}),
			"endereco": objProp(addressProps()),
			"resumo_frota": objProp(map[string]any{
				"total_veiculos":       intProp(),
				"veiculos_ativos":      intProp(),
				"veiculos_automotores": intProp(),
				"veiculos_implementos": intProp(),
			}),
			"responsavel_tecnico": objProp(map[string]any{
				"nome": strProp(),
				"cpf":  strProp(),
			}),
			"veiculos": arrProp(objProp(map[string]any{
				"placa":           strProp(),
				"renavam":         strProp(),
				"tipo":            strProp(),
				"tipo_carroceria": strProp(),
				"situacao":        strProp(),
				"propriedade":     strProp(),
			})),
		}),
		Prompt: anttPrompt,
	}
}

func cnhContract() *FieldContract {
	return &FieldContract{
		Type:    constants.CNH,
		Version: "2024-06",
		Fields: []string{
			"nome", "cpf", "rg", "data_nascimento", "data_emissao",
			"data_vencimento", "categoria", "numero_registro", "local_emissao",
			"endereco", "filiacao", "orgao_emissor", "observacoes",
			"nacionalidade", "primeira_habilitacao",
		},
		Required: []string{"nome", "cpf", "categoria"},
		Schema: rootSchema(map[string]any{
			"nome":            strProp(),
			"cpf":             strProp(),
			"rg":              strProp(),
			"data_nascimento": strProp(),
			"data_emissao":    strProp(),
			"data_vencimento": strProp(),
			"categoria":       strProp(),
			"numero_registro": strProp(),
			"local_emissao":   strProp(),
			"endereco":        objProp(addressProps()),
			"filiacao": objProp(map[string]any{
				"pai": strProp(),
				"mae": strProp(),
			}),
			"orgao_emissor":        strProp(),
			"observacoes":          strProp(),
			"nacionalidade":        strProp(),
			"primeira_habilitacao": strProp(),
		}),
		Prompt: cnhPrompt,
	}
}

func cnpjContract() *FieldContract {
	return &FieldContract{
		Type:    constants.CNPJ,
		Version: "2024-06",
		Fields: []string{
			"cnpj", "razao_social", "nome_fantasia", "natureza_juridica",
			"atividade_principal", "atividades_secundarias", "data_abertura",
			"situacao_cadastral", "data_situacao", "endereco", "capital_social",
			"porte", "socios", "telefone", "email", "site",
		},
		Required: []string{"cnpj", "razao_social"},
		Schema: rootSchema(map[string]any{
			"cnpj":                strProp(),
			"razao_social":        strProp(),
			"nome_fantasia":       strProp(),
			"natureza_juridica":   strProp(),
			"atividade_principal": strProp(),
			"atividades_secundarias": arrProp(objProp(map[string]any{
				"codigo":    strProp(),
				"descricao": strProp(),
			})),
			"data_abertura":      strProp(),
			"situacao_cadastral": strProp(),
			"data_situacao":      strProp(),
			"endereco":           objProp(addressProps()),
			"capital_social":     strProp(),
			"porte":              strProp(),
			"socios": arrProp(objProp(map[string]any{
				"nome":         strProp(),
				"cpf_cnpj":     strProp(),
				"qualificacao": strProp(),
			})),
			"telefone": strProp(),
			"email":    strProp(),
			"site":     strProp(),
		}),
		Prompt: cnpjPrompt,
	}
}

func vehicleContract() *FieldContract {
	return &FieldContract{
		Type:     constants.Vehicle,
		Version:  "2024-06",
		Fields:   []string{"dados_veiculo", "situacao", "proprietario"},
		Required: []string{"dados_veiculo.placa", "dados_veiculo.renavam", "proprietario.nome"},
		Schema: rootSchema(map[string]any{
			"dados_veiculo": objProp(map[string]any{
				"placa":            strProp(),
				"placa_anterior":   strProp(),
				"chassi":           strProp(),
				"renavam":          strProp(),
				"marca_modelo":     strProp(),
				"ano_fabricacao":   intProp(),
				"ano_modelo":       intProp(),
				"cor":              strProp(),
				"combustivel":      strProp(),
				"categoria":        strProp(),
				"especie":          strProp(),
				"tipo":             strProp(),
				"potencia":         strProp(),
				"cilindrada":       strProp(),
				"motor":            strProp(),
				"lotacao":          strProp(),
				"peso_bruto_total": strProp(),
			}),
			"situacao": objProp(map[string]any{
				"exercicio":   strProp(),
				"restricoes":  arrProp(strProp()),
				"observacoes": strProp(),
			}),
			"proprietario": objProp(map[string]any{
				"nome":     strProp(),
				"cpf_cnpj": strProp(),
				"endereco": strProp(),
				"cidade":   strProp(),
				"uf":       strProp(),
			}),
		}),
		Prompt: vehiclePrompt,
	}
}

func residenceContract() *FieldContract {
	return &FieldContract{
		Type:     constants.Residence,
		Version:  "2024-06",
		Fields:   []string{"tipo_conta", "emissor", "fatura", "titular", "endereco_instalacao", "leituras"},
		Required: []string{"titular.nome", "endereco_instalacao.logradouro"},
		Schema: rootSchema(map[string]any{
			"tipo_conta": strProp(),
			"emissor": objProp(map[string]any{
				"nome_empresa": strProp(),
				"cnpj":         strProp(),
			}),
			"fatura": objProp(map[string]any{
				"mes_referencia":    strProp(),
				"vencimento":        strProp(),
				"valor_total":       numProp(),
				"numero_instalacao": strProp(),
				"codigo_cliente":    strProp(),
				"codigo_barras":     strProp(),
			}),
			"titular": objProp(map[string]any{
				"nome":     strProp(),
				"cpf_cnpj": strProp(),
			}),
			"endereco_instalacao": objProp(addressProps()),
			"leituras": objProp(map[string]any{
				"leitura_atual":    strProp(),
				"leitura_anterior": strProp(),
				"consumo":          strProp(),
			}),
		}),
		Prompt: residencePrompt,
	}
}

func unknownContract() *FieldContract {
	return &FieldContract{
		Type:    constants.Unknown,
		Version: "2024-06",
		Fields: []string{
			"tipo_documento", "nome", "cpf_cnpj", "documento_numero",
			"data_emissao", "endereco", "dados_principais", "informacoes_adicionais",
		},
		Required: nil, // confidence is purely a structuring-quality signal
		Schema: rootSchema(map[string]any{
			"tipo_documento":   strProp(),
			"nome":             strProp(),
			"cpf_cnpj":         strProp(),
			"documento_numero": strProp(),
			"data_emissao":     strProp(),
			"endereco":         strProp(),
			"dados_principais": map[string]any{
				"type": []string{"object", "null"},
			},
			"informacoes_adicionais": strProp(),
		}),
		Prompt: genericPrompt,
	}
}
